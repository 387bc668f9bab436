package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/aebalz/wellmind-tracker/internal/apierror"
	"github.com/aebalz/wellmind-tracker/internal/service"
)

var errMalformedBody = service.NewValidationError("body", "json", "must be a valid JSON object")

func writeGinError(c *gin.Context, logger zerolog.Logger, err error) {
	resp := apierror.FromError(err, c.Request.URL.Path)
	if resp.Status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", resp.Path).Msg("request failed")
	}
	c.AbortWithStatusJSON(resp.Status, resp)
}

func writeFiberError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	resp := apierror.FromError(err, c.Path())
	if resp.Status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", resp.Path).Msg("request failed")
	}
	return c.Status(resp.Status).JSON(resp)
}

func parseUserID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, service.NewValidationError("userId", "numeric", "must be a positive integer")
	}
	return uint(id), nil
}

func parseIntQuery(raw, name string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, service.NewValidationError(name, "numeric", "must be an integer")
	}
	return v, nil
}

// parseTimeQuery accepts RFC 3339 timestamps or plain dates. A plain date used
// as the end of a range covers that whole day.
func parseTimeQuery(raw, name string, endOfDay bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.NewValidationError(name, "required", "is required")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, service.NewValidationError(name, "datetime", "must be an RFC 3339 timestamp or a YYYY-MM-DD date")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
