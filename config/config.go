package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-super-secret-key-change-in-production"

type Config struct {
	Env             string
	DatabaseURL     string
	DBLogLevel      string
	JWTSecret       string
	JWTExpiration   time.Duration
	ServerPort      string
	AllowedOrigins  []string
	LogLevel        string
	AdminEmail      string
	AdminPassword   string
	ShutdownTimeout time.Duration

	// parseErrors holds values Load could not parse; Validate reports them.
	parseErrors []string
}

// Load reads the configuration from the environment, after loading a .env
// file from the working directory when one exists.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		DatabaseURL:     getEnv("DATABASE_URL", "postgresql://postgres@localhost:5432/profitdesk"),
		DBLogLevel:      getEnv("DB_LOG_LEVEL", "warn"),
		JWTSecret:       getEnv("JWT_SECRET", defaultJWTSecret),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		AllowedOrigins:  getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		AdminEmail:      getEnv("ADMIN_EMAIL", ""),
		AdminPassword:   getEnv("ADMIN_PASSWORD", ""),
	}
	cfg.JWTExpiration = cfg.getEnvDuration("JWT_EXPIRATION", 24*time.Hour)
	cfg.ShutdownTimeout = cfg.getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second)
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) HTTPAddr() string {
	return ":" + c.ServerPort
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	problems := append([]string(nil), c.parseErrors...)

	if port, err := strconv.Atoi(c.ServerPort); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.ServerPort))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL cannot be empty")
	}

	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET cannot be empty")
	} else if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		problems = append(problems, "JWT_SECRET must be changed in production")
	}

	if c.JWTExpiration < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid JWT expiration %v: must be at least 1 minute", c.JWTExpiration))
	}

	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		problems = append(problems, "ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	if c.ShutdownTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration parses key as a duration. A malformed value keeps the
// default and is recorded for Validate.
func (c *Config) getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		c.parseErrors = append(c.parseErrors, fmt.Sprintf("invalid %s %q: must be a duration like 30s or 24h", key, value))
		return defaultValue
	}
	return d
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
