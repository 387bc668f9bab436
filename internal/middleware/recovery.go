package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/aebalz/wellmind-tracker/internal/apierror"
)

// RecoverFiber turns handler panics into a 500 handled by the app's error handler.
func RecoverFiber(logger zerolog.Logger) fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			logger.Error().
				Str("panic", fmt.Sprint(e)).
				Str("path", c.Path()).
				Str("request_id", requestIDFromFiber(c)).
				Bytes("stack", debug.Stack()).
				Msg("recovered from panic")
		},
	})
}

// RecoverGin turns handler panics into a 500 error body.
func RecoverGin(logger zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		logger.Error().
			Str("panic", fmt.Sprint(recovered)).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString(RequestIDKey)).
			Bytes("stack", debug.Stack()).
			Msg("recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			apierror.New(http.StatusInternalServerError, "an unexpected error occurred", c.Request.URL.Path))
	})
}
