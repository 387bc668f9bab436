package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
)

// Pinger checks a backing service.
type Pinger func(ctx context.Context) error

// HealthHandler handles health check requests.
type HealthHandler struct {
	Database Pinger
	Redis    Pinger
	Timeout  time.Duration
}

// NewHealthHandler creates a new HealthHandler. A nil pinger means the
// dependency is not in use and is reported as "disabled".
func NewHealthHandler(database, redis Pinger) *HealthHandler {
	return &HealthHandler{Database: database, Redis: redis, Timeout: 2 * time.Second}
}

// HealthCheckResponse defines the structure for the health check response.
type HealthCheckResponse struct {
	ServerStatus   string `json:"server_status"`
	DatabaseStatus string `json:"database_status"`
	RedisStatus    string `json:"redis_status"`
	Timestamp      string `json:"timestamp"`
}

func (h *HealthHandler) check(ctx context.Context) (int, HealthCheckResponse) {
	ctx, cancel := context.WithTimeout(ctx, h.Timeout)
	defer cancel()

	response := HealthCheckResponse{
		ServerStatus: "OK",
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	response.DatabaseStatus = probe(ctx, h.Database)
	response.RedisStatus = probe(ctx, h.Redis)
	if response.DatabaseStatus != "OK" && response.DatabaseStatus != "disabled" {
		status = http.StatusServiceUnavailable
	}
	return status, response
}

func probe(ctx context.Context, ping Pinger) string {
	if ping == nil {
		return "disabled"
	}
	if err := ping(ctx); err != nil {
		return "Error: " + err.Error()
	}
	return "OK"
}

// CheckHealthFiber is the health check endpoint handler for Fiber.
// @Summary API Health Check
// @Description Check the health of the API and its backing services. Redis problems degrade but do not fail the check.
// @Tags Health
// @Produce json
// @Success 200 {object} HealthCheckResponse
// @Failure 503 {object} HealthCheckResponse "database ping failed"
// @Router /health [get]
func (h *HealthHandler) CheckHealthFiber(c *fiber.Ctx) error {
	status, response := h.check(c.UserContext())
	return c.Status(status).JSON(response)
}

// CheckHealthGin is the health check endpoint handler for Gin.
func (h *HealthHandler) CheckHealthGin(c *gin.Context) {
	status, response := h.check(c.Request.Context())
	c.JSON(status, response)
}
