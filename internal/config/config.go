package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the application configuration.
type AppConfig struct {
	DBHost             string
	DBPort             int
	DBUser             string
	DBPassword         string
	DBName             string
	DBSslMode          string
	DBTimezone         string
	StorageDriver      string
	ServerPort         int
	ServerHost         string
	ServerFramework    string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	ShutdownTimeout    time.Duration
	AppEnv             string
	LogLevel           string
	AppName            string
	CorsAllowedOrigins []string
	RateLimitPerSecond float64
	RateLimitBurst     int
	SwaggerHost        string
	SwaggerBasePath    string
	SwaggerSchemes     []string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	CacheTTLExpiration time.Duration
	UserCacheEnabled   bool
	JWTSecret          string
	JWTExpiration      time.Duration
	NotificationDriver string
	NotificationQueue  string
	NotificationBuffer int
	AlertWindowDays    int
	AverageWindowDays  int
	AdminName          string
	AdminEmail         string
	AdminPassword      string
}

const defaultJWTSecret = "change-me-in-production"

// LoadConfig loads configuration from .env file or environment variables.
func LoadConfig(envFile ...string) (*AppConfig, error) {
	if len(envFile) > 0 {
		if _, err := os.Stat(envFile[0]); err == nil {
			if err := godotenv.Load(envFile[0]); err != nil {
				log.Warn().Err(err).Str("file", envFile[0]).Msg("could not load env file, using environment variables or defaults")
			}
		} else {
			log.Warn().Str("file", envFile[0]).Msg("env file not found, using environment variables or defaults")
		}
	} else if _, err := os.Stat("config.env"); err == nil {
		if err := godotenv.Load("config.env"); err != nil {
			log.Warn().Err(err).Msg("could not load default config.env, using environment variables or defaults")
		}
	}

	cfg := &AppConfig{
		DBHost:             getStringEnv("DB_HOST", "localhost"),
		DBPort:             getIntEnv("DB_PORT", 5432),
		DBUser:             getStringEnv("DB_USER", "postgres"),
		DBPassword:         getStringEnv("DB_PASSWORD", "password"),
		DBName:             getStringEnv("DB_NAME", "wellmind"),
		DBSslMode:          getStringEnv("DB_SSL_MODE", "disable"),
		DBTimezone:         getStringEnv("DB_TIMEZONE", "UTC"),
		StorageDriver:      strings.ToLower(getStringEnv("STORAGE_DRIVER", "postgres")),
		ServerPort:         getIntEnv("SERVER_PORT", 8080),
		ServerHost:         getStringEnv("SERVER_HOST", "0.0.0.0"),
		ServerFramework:    strings.ToLower(getStringEnv("SERVER_FRAMEWORK", "fiber")),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", "15s"),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", "15s"),
		ServerIdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", "60s"),
		ShutdownTimeout:    getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", "5s"),
		AppEnv:             strings.ToLower(getStringEnv("APP_ENV", "development")),
		LogLevel:           strings.ToLower(getStringEnv("LOG_LEVEL", "info")),
		AppName:            getStringEnv("APP_NAME", "WellMind Tracker"),
		CorsAllowedOrigins: getSliceEnv("CORS_ALLOWED_ORIGINS", "*"),
		RateLimitPerSecond: getFloatEnv("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 20),
		SwaggerHost:        getStringEnv("SWAGGER_HOST", "localhost:8080"),
		SwaggerBasePath:    getStringEnv("SWAGGER_BASE_PATH", "/api/v1"),
		SwaggerSchemes:     getSliceEnv("SWAGGER_SCHEMES", "http,https"),
		RedisAddr:          getStringEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getStringEnv("REDIS_PASSWORD", ""),
		RedisDB:            getIntEnv("REDIS_DB", 0),
		CacheTTLExpiration: getDurationEnv("CACHE_TTL_EXPIRATION", "5m"),
		UserCacheEnabled:   getBoolEnv("USER_CACHE_ENABLED", false),
		JWTSecret:          getStringEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpiration:      getDurationEnv("JWT_EXPIRATION", "24h"),
		NotificationDriver: strings.ToLower(getStringEnv("NOTIFICATION_DRIVER", "log")),
		NotificationQueue:  getStringEnv("NOTIFICATION_QUEUE_KEY", "wellness.notification"),
		NotificationBuffer: getIntEnv("NOTIFICATION_BUFFER", 100),
		AlertWindowDays:    getIntEnv("ALERT_WINDOW_DAYS", 1),
		AverageWindowDays:  getIntEnv("AVERAGE_WINDOW_DAYS", 30),
		AdminName:          getStringEnv("ADMIN_NAME", "Administrator"),
		AdminEmail:         strings.ToLower(strings.TrimSpace(getStringEnv("ADMIN_EMAIL", ""))),
		AdminPassword:      getStringEnv("ADMIN_PASSWORD", ""),
	}

	if cfg.ServerFramework != "fiber" && cfg.ServerFramework != "gin" {
		log.Warn().Str("value", cfg.ServerFramework).Msg("invalid SERVER_FRAMEWORK, defaulting to 'fiber'")
		cfg.ServerFramework = "fiber"
	}

	validAppEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validAppEnvs[cfg.AppEnv] {
		log.Warn().Str("value", cfg.AppEnv).Msg("invalid APP_ENV, defaulting to 'development'")
		cfg.AppEnv = "development"
	}

	if cfg.StorageDriver != "postgres" && cfg.StorageDriver != "memory" {
		log.Warn().Str("value", cfg.StorageDriver).Msg("invalid STORAGE_DRIVER, defaulting to 'postgres'")
		cfg.StorageDriver = "postgres"
	}

	if cfg.NotificationDriver != "log" && cfg.NotificationDriver != "redis" {
		log.Warn().Str("value", cfg.NotificationDriver).Msg("invalid NOTIFICATION_DRIVER, defaulting to 'log'")
		cfg.NotificationDriver = "log"
	}

	if cfg.NotificationBuffer < 1 {
		cfg.NotificationBuffer = 100
	}
	if cfg.AlertWindowDays < 1 {
		cfg.AlertWindowDays = 1
	}
	if cfg.AverageWindowDays < 1 {
		cfg.AverageWindowDays = 30
	}

	if cfg.JWTSecret == defaultJWTSecret && cfg.AppEnv == "production" {
		log.Warn().Msg("JWT_SECRET is using the built-in default in production")
	}

	return cfg, nil
}

// BootstrapAdmin reports whether an admin account should be ensured at startup.
func (c *AppConfig) BootstrapAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

// RedisRequired reports whether any enabled component talks to Redis.
func (c *AppConfig) RedisRequired() bool {
	return c.UserCacheEnabled || c.NotificationDriver == "redis"
}

func getStringEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Int("default", defaultValue).Msg("invalid integer value, using default")
		return defaultValue
	}
	return value
}

func getDurationEnv(key, defaultValue string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		valueStr = defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Str("default", defaultValue).Msg("invalid duration value, using default")
		defaultDur, _ := time.ParseDuration(defaultValue)
		return defaultDur
	}
	return value
}

func getSliceEnv(key, defaultValue string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		valueStr = defaultValue
	}
	if valueStr == "" {
		return []string{}
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func getFloatEnv(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Float64("default", defaultValue).Msg("invalid float value, using default")
		return defaultValue
	}
	return value
}

func getBoolEnv(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Bool("default", defaultValue).Msg("invalid boolean value, using default")
		return defaultValue
	}
	return value
}
