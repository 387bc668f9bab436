package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	fibercors "github.com/gofiber/fiber/v2/middleware/cors"
)

var (
	corsHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader}
	corsMethods = []string{"GET", "POST", "OPTIONS"}
)

// CORSFiber allows the configured origins. Fiber takes them as one comma separated string.
func CORSFiber(origins []string) fiber.Handler {
	allow := "*"
	if len(origins) > 0 {
		allow = strings.Join(origins, ",")
	}
	return fibercors.New(fibercors.Config{
		AllowOrigins:  allow,
		AllowHeaders:  strings.Join(corsHeaders, ", "),
		AllowMethods:  strings.Join(corsMethods, ", "),
		ExposeHeaders: RequestIDHeader,
	})
}

// CORSGin allows the configured origins.
func CORSGin(origins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowHeaders = corsHeaders
	corsConfig.AllowMethods = corsMethods
	corsConfig.ExposeHeaders = []string{RequestIDHeader}
	return cors.New(corsConfig)
}
