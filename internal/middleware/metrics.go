package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"code", "method", "path"},
	)
)

const userRecordsPrefix = "/api/v1/wellness/users/"

// normalizePath keeps the path label's cardinality bounded when no route
// template is available: /api/v1/wellness/users/42/latest -> /api/v1/wellness/users/:userId/latest.
func normalizePath(path string) string {
	if !strings.HasPrefix(path, userRecordsPrefix) {
		return path
	}
	rest := strings.TrimPrefix(path, userRecordsPrefix)
	id, tail, _ := strings.Cut(rest, "/")
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return path
	}
	normalized := userRecordsPrefix + ":userId"
	if tail != "" {
		normalized += "/" + tail
	}
	return normalized
}

func statusFromFiberError(err error, status int) int {
	var fiberError *fiber.Error
	if errors.As(err, &fiberError) {
		return fiberError.Code
	}
	if status == http.StatusOK {
		return http.StatusInternalServerError
	}
	return status
}

func observe(status int, method, path string, start time.Time) {
	code := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(code, method, path).Inc()
	httpRequestDuration.WithLabelValues(code, method, path).Observe(time.Since(start).Seconds())
}

// MetricsMiddlewareFiber creates a Fiber middleware for collecting Prometheus metrics.
func MetricsMiddlewareFiber() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		statusCode := c.Response().StatusCode()
		if err != nil {
			statusCode = statusFromFiberError(err, statusCode)
		}

		path := c.Route().Path
		if path == "" || path == "/" || strings.HasSuffix(path, "*") {
			path = normalizePath(c.Path())
		}
		observe(statusCode, c.Method(), path, start)
		return err
	}
}

// MetricsMiddlewareGin creates a Gin middleware for collecting Prometheus metrics.
func MetricsMiddlewareGin() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = normalizePath(c.Request.URL.Path)
		}
		observe(c.Writer.Status(), c.Request.Method, path, start)
	}
}
