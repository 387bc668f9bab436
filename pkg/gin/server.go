package gin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggoFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/aebalz/wellmind-tracker/docs"
	"github.com/aebalz/wellmind-tracker/internal/apierror"
	"github.com/aebalz/wellmind-tracker/internal/config"
	"github.com/aebalz/wellmind-tracker/internal/handler"
	"github.com/aebalz/wellmind-tracker/internal/middleware"
	"github.com/aebalz/wellmind-tracker/internal/model"
)

// NewGinServer creates and configures a new Gin application.
func NewGinServer(cfg *config.AppConfig, h *handler.Handlers, tokens middleware.TokenValidator, limiter *middleware.IPRateLimiter, logger zerolog.Logger) *gin.Engine {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(middleware.RecoverGin(logger))
	router.Use(middleware.RequestIDGin())
	router.Use(middleware.RequestLoggerGin(logger))
	router.Use(middleware.MetricsMiddlewareGin())
	router.Use(middleware.CORSGin(cfg.CorsAllowedOrigins))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, apierror.New(http.StatusNotFound, "Cannot "+c.Request.Method+" "+c.Request.URL.Path, c.Request.URL.Path))
	})

	url := ginSwagger.URL("/swagger/doc.json")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggoFiles.Handler, url))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", h.Health.CheckHealthGin)

	api := router.Group("/api/v1", limiter.Gin())
	{
		authRoutes := api.Group("/auth")
		authRoutes.POST("/register", h.Auth.RegisterGin)
		authRoutes.POST("/login", h.Auth.LoginGin)

		wellness := api.Group("/wellness", middleware.JWTAuthGin(tokens))
		wellness.POST("", h.Wellness.SubmitRecordGin)
		wellness.GET("/alerts", middleware.RequireRoleGin(model.RoleAdmin), h.Wellness.RecordsRequiringAlertGin)
		wellness.GET("/high-stress", middleware.RequireRoleGin(model.RoleAdmin), h.Wellness.HighStressRecordsGin)

		users := wellness.Group("/users/:userId")
		users.GET("", h.Wellness.ListUserRecordsGin)
		users.GET("/latest", h.Wellness.LatestRecordGin)
		users.GET("/period", h.Wellness.RecordsForPeriodGin)
		users.GET("/average", h.Wellness.AverageWellnessGin)
		users.GET("/statistics", h.Wellness.UserStatisticsGin)
		users.GET("/export", h.Wellness.ExportUserRecordsGin)
	}

	return router
}

// StartGinServer starts the Gin server in the background. Listen failures
// other than a clean shutdown are sent on the returned channel.
func StartGinServer(router *gin.Engine, cfg *config.AppConfig, logger zerolog.Logger) (*http.Server, <-chan error) {
	addr := fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort)

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	logger.Info().Str("addr", addr).Msg("starting GIN server")

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return srv, errCh
}

// ShutdownGinServer gracefully shuts down the Gin server.
func ShutdownGinServer(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
