package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Env:             "development",
		DatabaseURL:     "sqlite:profitdesk.db",
		JWTSecret:       "secret",
		JWTExpiration:   time.Hour,
		ServerPort:      "8080",
		ShutdownTimeout: time.Second,
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "DATABASE_URL", "JWT_SECRET", "JWT_EXPIRATION", "SERVER_PORT", "ALLOWED_ORIGINS", "ADMIN_EMAIL", "ADMIN_PASSWORD"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != "8080" || cfg.JWTExpiration != 24*time.Hour || cfg.Env != "development" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	want := []string{"http://localhost:5173", "http://localhost:3000"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_EXPIRATION", "2h")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != "9090" || cfg.HTTPAddr() != ":9090" {
		t.Fatalf("port = %q", cfg.ServerPort)
	}
	if cfg.JWTExpiration != 2*time.Hour {
		t.Fatalf("JWTExpiration = %v", cfg.JWTExpiration)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Fatalf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.ShutdownTimeout != 15*time.Second {
		t.Fatalf("bad duration should fall back to default, got %v", cfg.ShutdownTimeout)
	}
	err = cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "SHUTDOWN_TIMEOUT") {
		t.Fatalf("Validate() = %v, want the malformed SHUTDOWN_TIMEOUT reported", err)
	}
}

func TestMalformedDurationsReported(t *testing.T) {
	t.Setenv("JWT_EXPIRATION", "1 day")
	t.Setenv("SHUTDOWN_TIMEOUT", "15")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	err = cfg.Validate()
	if err == nil {
		t.Fatalf("Validate() = nil, want parse errors")
	}
	for _, key := range []string{"JWT_EXPIRATION", "SHUTDOWN_TIMEOUT"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("Validate() = %v, missing %s", err, key)
		}
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.ServerPort = "http" }, "must be a number"},
		{"port range", func(c *Config) { c.ServerPort = "70000" }, "between 1 and 65535"},
		{"no database", func(c *Config) { c.DatabaseURL = "" }, "DATABASE_URL"},
		{"default secret in production", func(c *Config) { c.Env = "production"; c.JWTSecret = defaultJWTSecret }, "must be changed"},
		{"short expiration", func(c *Config) { c.JWTExpiration = time.Second }, "at least 1 minute"},
		{"admin half set", func(c *Config) { c.AdminEmail = "admin@example.com" }, "set together"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tc.want)
			}
		})
	}

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.ServerPort = "0"
	cfg.DatabaseURL = ""
	err := cfg.Validate()
	if err == nil || strings.Count(err.Error(), "\n- ") != 2 {
		t.Fatalf("Validate() = %v, want two problems", err)
	}
}
