package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "SHUTDOWN_TIMEOUT", "DB_DRIVER", "DB_DSN", "SQLITE_PATH", "AUTO_MIGRATE",
		"AUTH_JWT_SECRET", "AUTH_USER_HEADER", "RATE_LIMIT_PER_MINUTE", "CORS_ALLOWED_ORIGIN",
		"SENTRY_DSN", "LOG_LEVEL", "LOG_FORMAT", "APP_NAME",
	} {
		// Setenv registra la restauración; Unsetenv deja la variable sin definir.
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" || cfg.Addr() != ":8080" {
		t.Errorf("port = %q addr = %q", cfg.Port, cfg.Addr())
	}
	if cfg.DBDriver != DriverMemory {
		t.Errorf("driver = %q, want memory", cfg.DBDriver)
	}
	if cfg.SQLitePath != "pets.db" || !cfg.AutoMigrate {
		t.Errorf("sqlite path %q automigrate %v", cfg.SQLitePath, cfg.AutoMigrate)
	}
	if cfg.UserHeader != "X-User-ID" || cfg.RateLimitPerMinute != 120 {
		t.Errorf("header %q rate %d", cfg.UserHeader, cfg.RateLimitPerMinute)
	}
	if cfg.ShutdownTimeout != 15*time.Second {
		t.Errorf("shutdown timeout = %v", cfg.ShutdownTimeout)
	}
	if cfg.CORSAllowedOrigin != "http://localhost:3000" {
		t.Errorf("cors origin = %q", cfg.CORSAllowedOrigin)
	}
}

func TestFromEnv_EmptyCORSOriginDisablesCORS(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGIN", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CORSAllowedOrigin != "" {
		t.Fatalf("cors origin = %q, want empty", cfg.CORSAllowedOrigin)
	}
}

func TestFromEnv_DSNImpliesPostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DSN", "postgres://u:p@localhost:5432/pets?sslmode=disable")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBDriver != DriverPostgres {
		t.Fatalf("driver = %q, want postgres", cfg.DBDriver)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr() != ":9090" || cfg.DBDriver != DriverSQLite || cfg.SQLitePath != "/tmp/x.db" {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
	if cfg.AutoMigrate || cfg.RateLimitPerMinute != 0 || cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Fatalf("jwt secret not loaded")
	}
}

func TestFromEnv_InvalidFallsBackToDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RateLimitPerMinute != 120 || cfg.ShutdownTimeout != 15*time.Second {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestFromEnv_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":       {"DB_DRIVER": "mysql"},
		"postgres without dsn": {"DB_DRIVER": "postgres"},
		"negative rate limit":  {"RATE_LIMIT_PER_MINUTE": "-1"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := FromEnv(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
