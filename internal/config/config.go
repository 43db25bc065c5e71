// Package config lee la configuración del proceso desde variables de entorno.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Drivers de datastore soportados.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config se carga una vez al arrancar y no se modifica después.
type Config struct {
	// Server
	Port            string
	ShutdownTimeout time.Duration

	// Datastore
	DBDriver    string
	DBDSN       string
	SQLitePath  string
	AutoMigrate bool

	// Auth
	JWTSecret  string
	UserHeader string

	// HTTP
	RateLimitPerMinute int
	CORSAllowedOrigin  string

	// Observabilidad
	SentryDSN string
	LogLevel  string
	LogFormat string
	AppName   string
}

// Load carga .env si existe y luego lee el entorno.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv lee solo el entorno (sin .env).
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:               getEnvString("PORT", "8080"),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		DBDriver:           strings.ToLower(strings.TrimSpace(os.Getenv("DB_DRIVER"))),
		DBDSN:              strings.TrimSpace(os.Getenv("DB_DSN")),
		SQLitePath:         getEnvString("SQLITE_PATH", "pets.db"),
		AutoMigrate:        getEnvBool("AUTO_MIGRATE", true),
		JWTSecret:          os.Getenv("AUTH_JWT_SECRET"),
		UserHeader:         getEnvString("AUTH_USER_HEADER", "X-User-ID"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		CORSAllowedOrigin:  getEnvOptional("CORS_ALLOWED_ORIGIN", "http://localhost:3000"),
		SentryDSN:          os.Getenv("SENTRY_DSN"),
		LogLevel:           getEnvString("LOG_LEVEL", "info"),
		LogFormat:          getEnvString("LOG_FORMAT", "text"),
		AppName:            getEnvString("APP_NAME", "pet-weight-tracker"),
	}

	if cfg.DBDriver == "" {
		cfg.DBDriver = DriverMemory
		if cfg.DBDSN != "" {
			cfg.DBDriver = DriverPostgres
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate revisa combinaciones inválidas. Se vuelve a llamar después de
// aplicar flags de CLI.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if c.DBDSN == "" {
			return errors.New("DB_DSN is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (memory|postgres|sqlite)", c.DBDriver)
	}
	if c.DBDriver == DriverSQLite && strings.TrimSpace(c.SQLitePath) == "" {
		return errors.New("SQLITE_PATH is required when DB_DRIVER=sqlite")
	}
	if c.RateLimitPerMinute < 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be >= 0")
	}
	return nil
}

// Addr es la dirección de escucha para http.Server.
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func getEnvString(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

// getEnvOptional distingue "no definida" (default) de "definida vacía" (desactivado).
func getEnvOptional(key, defaultVal string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	return strings.TrimSpace(v)
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return defaultVal
	}
	return d
}
