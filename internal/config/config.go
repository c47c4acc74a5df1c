package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/horus-attendance/horus-backend-go/internal/pkg/validator"
	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	HTTP     HTTPConfig
	Report   ReportConfig
	Cron     CronConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

type HTTPConfig struct {
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutdownTimeout    time.Duration
	RateLimitPerMinute int
	AllowedOrigins     []string
}

type ReportConfig struct {
	Workers int
}

type CronConfig struct {
	Enabled bool
	RunHour int
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := &Config{}
	var err error

	// Database configuration
	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "horus"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
	if config.Database.Port, err = getInt("DB_PORT", 5432); err != nil {
		return nil, err
	}
	if config.Database.MaxConns, err = getInt("DB_MAX_CONNS", 25); err != nil {
		return nil, err
	}
	if config.Database.MinConns, err = getInt("DB_MIN_CONNS", 2); err != nil {
		return nil, err
	}

	// Application configuration
	config.App = AppConfig{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
	if config.App.Port, err = getInt("APP_PORT", 8080); err != nil {
		return nil, err
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getDuration("JWT_ACCESS_EXPIRATION_TIME", 24*time.Hour),
	}

	// HTTP server configuration
	config.HTTP = HTTPConfig{
		ReadTimeout:     getDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getDuration("HTTP_WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:     getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		AllowedOrigins:  getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
	if config.HTTP.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 120); err != nil {
		return nil, err
	}

	if config.Report.Workers, err = getInt("REPORT_WORKERS", 4); err != nil {
		return nil, err
	}

	config.Cron.Enabled = getEnv("CRON_ENABLED", "true") == "true"
	if config.Cron.RunHour, err = getInt("CRON_RUN_HOUR", 0); err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs validator.ValidationErrors

	if c.Database.Password == "" {
		errs = append(errs, validator.ValidationError{Field: "DB_PASSWORD", Message: "DB_PASSWORD is required"})
	}
	if c.JWT.Secret == "" {
		errs = append(errs, validator.ValidationError{Field: "JWT_SECRET_KEY", Message: "JWT_SECRET_KEY is required"})
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, validator.ValidationError{Field: "APP_PORT", Message: "APP_PORT must be between 1 and 65535"})
	}
	if c.Report.Workers < 1 {
		errs = append(errs, validator.ValidationError{Field: "REPORT_WORKERS", Message: "REPORT_WORKERS must be at least 1"})
	}
	if c.HTTP.RateLimitPerMinute < 1 {
		errs = append(errs, validator.ValidationError{Field: "RATE_LIMIT_PER_MINUTE", Message: "RATE_LIMIT_PER_MINUTE must be at least 1"})
	}
	if c.Cron.RunHour < 0 || c.Cron.RunHour > 23 {
		errs = append(errs, validator.ValidationError{Field: "CRON_RUN_HOUR", Message: "CRON_RUN_HOUR must be between 0 and 23"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		// Plain integers are seconds.
		if secs, convErr := strconv.Atoi(val); convErr == nil {
			return time.Duration(secs) * time.Second
		}
		return fallback
	}
	return d
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
