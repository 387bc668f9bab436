package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"github.com/aebalz/wellmind-tracker/docs"
	"github.com/aebalz/wellmind-tracker/internal/auth"
	"github.com/aebalz/wellmind-tracker/internal/cache"
	"github.com/aebalz/wellmind-tracker/internal/config"
	"github.com/aebalz/wellmind-tracker/internal/handler"
	"github.com/aebalz/wellmind-tracker/internal/middleware"
	"github.com/aebalz/wellmind-tracker/internal/notification"
	"github.com/aebalz/wellmind-tracker/internal/repository"
	"github.com/aebalz/wellmind-tracker/internal/service"
	"github.com/aebalz/wellmind-tracker/pkg/database"
	fiberserver "github.com/aebalz/wellmind-tracker/pkg/fiber"
	ginserver "github.com/aebalz/wellmind-tracker/pkg/gin"
	"github.com/aebalz/wellmind-tracker/pkg/logger"
)

// application holds the wired dependencies shared by every command.
type application struct {
	cfg    *config.AppConfig
	logger zerolog.Logger
	db     *gorm.DB
	redis  *redis.Client

	records repository.WellnessRepositoryInterface
	users   repository.UserRepositoryInterface
	queue   *notification.QueueSink

	wellness *service.WellnessService
	auth     *service.AuthService
	tokens   *auth.TokenManager
}

func loadConfig(c *cli.Context) (*config.AppConfig, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(c.String("env-file"))
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, logger.New(cfg), nil
}

func newApplication(cfg *config.AppConfig, log zerolog.Logger) (*application, error) {
	app := &application{cfg: cfg, logger: log}

	switch cfg.StorageDriver {
	case "memory":
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		app.records = repository.NewMemoryWellnessRepository()
		app.users = repository.NewMemoryUserRepository()
	default:
		db, err := database.ConnectDB(cfg)
		if err != nil {
			return nil, err
		}
		if err := database.MigrateDB(db); err != nil {
			database.CloseDB()
			return nil, err
		}
		app.db = db
		app.records = repository.NewWellnessRepository(db)
		app.users = repository.NewUserRepository(db)
	}

	if cfg.RedisRequired() {
		app.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}

	var directory service.UserDirectory = app.users
	if cfg.UserCacheEnabled {
		directory = cache.NewCachedDirectory(app.users, app.redis, cfg.CacheTTLExpiration, log)
	}

	var transport notification.Sink = notification.NewLogSink(log)
	if cfg.NotificationDriver == "redis" {
		transport = notification.NewRedisSink(app.redis, cfg.NotificationQueue)
	}
	app.queue = notification.NewQueueSink(transport, cfg.NotificationBuffer, log)

	app.tokens = auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiration, cfg.AppName)
	app.wellness = service.NewWellnessService(app.records, directory, app.queue, log)
	app.auth = service.NewAuthService(app.users, app.tokens, log)
	return app, nil
}

func (a *application) close() {
	a.queue.Stop()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("error closing redis client")
		}
	}
	if a.db != nil {
		database.CloseDB()
	}
}

func (a *application) handlers() *handler.Handlers {
	var dbPing, redisPing handler.Pinger
	if a.db != nil {
		dbPing = func(ctx context.Context) error { return database.PingDB(ctx, a.db) }
	}
	if a.redis != nil {
		redisPing = func(ctx context.Context) error { return a.redis.Ping(ctx).Err() }
	}
	return &handler.Handlers{
		Health:   handler.NewHealthHandler(dbPing, redisPing),
		Auth:     handler.NewAuthHandler(a.auth, a.logger),
		Wellness: handler.NewWellnessHandler(a.wellness, a.logger, a.cfg.AlertWindowDays, a.cfg.AverageWindowDays),
	}
}

func serveAction(c *cli.Context) error {
	cfg, log, err := loadConfig(c)
	if err != nil {
		return err
	}

	docs.SwaggerInfo.Host = cfg.SwaggerHost
	docs.SwaggerInfo.BasePath = cfg.SwaggerBasePath
	docs.SwaggerInfo.Schemes = cfg.SwaggerSchemes
	docs.SwaggerInfo.Title = cfg.AppName + " API"

	app, err := newApplication(cfg, log)
	if err != nil {
		return err
	}
	defer app.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.BootstrapAdmin() {
		if err := app.auth.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("failed to create admin account: %w", err)
		}
	}

	app.queue.Start(context.Background())
	limiter := middleware.NewIPRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	limiter.StartCleanup(ctx)
	handlers := app.handlers()

	switch cfg.ServerFramework {
	case "gin":
		engine := ginserver.NewGinServer(cfg, handlers, app.tokens, limiter, log)
		srv, errCh := ginserver.StartGinServer(engine, cfg, log)
		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("GIN server failed: %w", err)
			}
		case <-ctx.Done():
		}
		log.Info().Msg("shutting down GIN server")
		if err := ginserver.ShutdownGinServer(srv, cfg.ShutdownTimeout); err != nil {
			return err
		}
	default:
		fiberApp := fiberserver.NewFiberServer(cfg, handlers, app.tokens, limiter, log)
		errCh := make(chan error, 1)
		go func() {
			errCh <- fiberserver.StartFiberServer(fiberApp, cfg, log)
		}()
		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("fiber server failed: %w", err)
			}
		case <-ctx.Done():
		}
		log.Info().Msg("shutting down Fiber server")
		if err := fiberApp.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			return fmt.Errorf("error during Fiber server shutdown: %w", err)
		}
	}

	log.Info().Msg("server gracefully stopped")
	return nil
}

func migrateAction(c *cli.Context) error {
	cfg, log, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.StorageDriver != "postgres" {
		return errors.New("migrate needs STORAGE_DRIVER=postgres")
	}

	db, err := database.ConnectDB(cfg)
	if err != nil {
		return err
	}
	defer database.CloseDB()
	if err := database.MigrateDB(db); err != nil {
		return err
	}
	log.Info().Msg("schema is up to date")
	return nil
}

func alertsAction(c *cli.Context) error {
	cfg, log, err := loadConfig(c)
	if err != nil {
		return err
	}
	app, err := newApplication(cfg, log)
	if err != nil {
		return err
	}
	defer app.close()

	days := c.Int("days")
	if days == 0 {
		days = cfg.AlertWindowDays
	}
	records, err := app.wellness.FindRecordsRequiringAlert(c.Context, days)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
