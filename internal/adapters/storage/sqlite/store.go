// Package sqlite es el store embebido: gorm sobre modernc.org/sqlite (sin cgo),
// con el esquema versionado por goose.
package sqlite

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-weight-tracker/internal/domain/pets"
	"pet-weight-tracker/internal/domain/users"
	"pet-weight-tracker/internal/domain/weights"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrForeignKey: la fila referenciada (user o pet) no existe.
var ErrForeignKey = errors.New("referenced row does not exist")

// Open abre (o crea) el archivo path con foreign keys activas.
func Open(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dsn(path),
	}, &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() users.Repository     { return NewUsersRepo(s.db) }
func (s *Store) Pets() pets.Repository       { return NewPetsRepo(s.db) }
func (s *Store) Weights() weights.Repository { return NewWeightsRepo(s.db) }

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func constraintCode(err error) int {
	var se *msqlite.Error
	if errors.As(err, &se) {
		return se.Code()
	}
	return 0
}

func isUniqueViolation(err error) bool {
	return constraintCode(err) == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func isForeignKeyViolation(err error) bool {
	return constraintCode(err) == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}
