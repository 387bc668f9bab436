package fiber

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggoFiber "github.com/swaggo/fiber-swagger"

	_ "github.com/aebalz/wellmind-tracker/docs"
	"github.com/aebalz/wellmind-tracker/internal/apierror"
	"github.com/aebalz/wellmind-tracker/internal/config"
	"github.com/aebalz/wellmind-tracker/internal/handler"
	"github.com/aebalz/wellmind-tracker/internal/middleware"
	"github.com/aebalz/wellmind-tracker/internal/model"
)

// NewFiberServer creates and configures a new Fiber application.
func NewFiberServer(cfg *config.AppConfig, h *handler.Handlers, tokens middleware.TokenValidator, limiter *middleware.IPRateLimiter, logger zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ReadTimeout:           cfg.ServerReadTimeout,
		WriteTimeout:          cfg.ServerWriteTimeout,
		IdleTimeout:           cfg.ServerIdleTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler(logger),
	})

	app.Use(middleware.RecoverFiber(logger))
	app.Use(middleware.RequestIDFiber())
	app.Use(middleware.RequestLoggerFiber(logger))
	app.Use(middleware.MetricsMiddlewareFiber())
	app.Use(middleware.CORSFiber(cfg.CorsAllowedOrigins))

	app.Get("/swagger/*", swaggoFiber.WrapHandler)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/health", h.Health.CheckHealthFiber)

	api := app.Group("/api/v1", limiter.Fiber())

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", h.Auth.RegisterFiber)
	authRoutes.Post("/login", h.Auth.LoginFiber)

	wellness := api.Group("/wellness", middleware.JWTAuthFiber(tokens))
	wellness.Post("/", h.Wellness.SubmitRecordFiber)
	wellness.Get("/alerts", middleware.RequireRoleFiber(model.RoleAdmin), h.Wellness.RecordsRequiringAlertFiber)
	wellness.Get("/high-stress", middleware.RequireRoleFiber(model.RoleAdmin), h.Wellness.HighStressRecordsFiber)

	users := wellness.Group("/users/:userId")
	users.Get("/", h.Wellness.ListUserRecordsFiber)
	users.Get("/latest", h.Wellness.LatestRecordFiber)
	users.Get("/period", h.Wellness.RecordsForPeriodFiber)
	users.Get("/average", h.Wellness.AverageWellnessFiber)
	users.Get("/statistics", h.Wellness.UserStatisticsFiber)
	users.Get("/export", h.Wellness.ExportUserRecordsFiber)

	return app
}

// customErrorHandler renders errors that escape the handlers, such as
// unknown routes and recovered panics, in the API error format.
func customErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "an unexpected error occurred"

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error().Err(err).Str("path", ctx.Path()).Msg("fiber error")
		}
		return ctx.Status(code).JSON(apierror.New(code, message, ctx.Path()))
	}
}

// StartFiberServer starts the Fiber server.
func StartFiberServer(app *fiber.App, cfg *config.AppConfig, logger zerolog.Logger) error {
	addr := fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort)
	logger.Info().Str("addr", addr).Msg("starting Fiber server")
	return app.Listen(addr)
}
