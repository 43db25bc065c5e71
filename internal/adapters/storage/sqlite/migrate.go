package sqlite

import (
	"context"
	"embed"
	"fmt"
	"os"
	"strings"

	"pet-weight-tracker/internal/platform/logger"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations aplica el esquema con goose. La salida de goose va a log.
func RunMigrations(ctx context.Context, db *gorm.DB, log logger.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	goose.SetLogger(gooseLogger{log: log})
	goose.SetBaseFS(migrationsFS)
	return goose.UpContext(ctx, sqlDB, "migrations")
}

// gooseLogger adapta logger.Logger a goose.Logger.
type gooseLogger struct {
	log logger.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.logger().Info(strings.TrimSpace(fmt.Sprintf(format, v...)), map[string]any{"component": "goose"})
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.logger().Error(strings.TrimSpace(fmt.Sprintf(format, v...)), map[string]any{"component": "goose"})
	os.Exit(1)
}

func (g gooseLogger) logger() logger.Logger {
	if g.log == nil {
		return logger.Nop()
	}
	return g.log
}
