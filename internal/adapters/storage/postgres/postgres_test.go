package postgres

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"testing"
	"time"

	"pet-weight-tracker/internal/apperr"
	"pet-weight-tracker/internal/domain/pets"
	"pet-weight-tracker/internal/domain/users"
	"pet-weight-tracker/internal/domain/weights"
)

var (
	_ users.Repository   = (*UsersRepo)(nil)
	_ pets.Repository    = (*PetsRepo)(nil)
	_ weights.Repository = (*WeightsRepo)(nil)
)

func TestMigrationsAreEmbedded(t *testing.T) {
	for _, name := range []string{"migrations/000001_init.up.sql", "migrations/000001_init.down.sql"} {
		if _, err := fs.Stat(migrationsFS, name); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
}

// setupTestDB corre solo con TEST_DB_DSN (URL postgres://). Limpia y migra.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	db, err := Open(dsn)
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(`
		DROP TABLE IF EXISTS weight_logs CASCADE;
		DROP TABLE IF EXISTS pets CASCADE;
		DROP TABLE IF EXISTS users CASCADE;
		DROP TABLE IF EXISTS schema_migrations CASCADE;
	`); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if err := RunMigrations(dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestStore_Live(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	s := NewStore(db)

	u, err := s.Users().Create(ctx, users.User{Email: "ana@example.com", Plan: users.PlanFree})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := s.Users().Create(ctx, users.User{Email: "ANA@example.com", Plan: users.PlanFree}); !errors.Is(err, users.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	owner := u.ID
	breed := "Golden Retriever"
	p, err := s.Pets().Create(ctx, pets.Pet{
		UserID:    &owner,
		Name:      "Buddy",
		Species:   "Dog",
		Breed:     &breed,
		Gender:    pets.GenderUnknown,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil || p.ID <= 0 {
		t.Fatalf("create pet: %+v %v", p, err)
	}
	stored, err := s.Pets().GetByID(ctx, p.ID)
	if err != nil || !stored.CreatedAt.Equal(p.CreatedAt) {
		t.Fatalf("createdAt must round-trip: create=%v get=%v err=%v", p.CreatedAt, stored.CreatedAt, err)
	}

	ghost := int64(999999)
	if _, err := s.Pets().Create(ctx, pets.Pet{UserID: &ghost, Name: "x", Species: "y", Gender: pets.GenderUnknown, CreatedAt: time.Now()}); !errors.Is(err, ErrForeignKey) {
		t.Fatalf("expected ErrForeignKey, got %v", err)
	}

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	late, _ := s.Weights().Create(ctx, weights.WeightLog{PetID: p.ID, WeightKg: 12, MeasuredAt: base.Add(time.Hour)})
	early, _ := s.Weights().Create(ctx, weights.WeightLog{PetID: p.ID, WeightKg: 10, MeasuredAt: base})

	list, err := s.Weights().ListByPet(ctx, p.ID)
	if err != nil || len(list) != 2 || list[0].ID != early.ID || list[1].ID != late.ID {
		t.Fatalf("unexpected order %+v %v", list, err)
	}

	precise, err := s.Weights().Create(ctx, weights.WeightLog{PetID: p.ID, WeightKg: 9, MeasuredAt: base.Add(-time.Hour + 123456789)})
	if err != nil {
		t.Fatalf("create weight: %v", err)
	}
	list, _ = s.Weights().ListByPet(ctx, p.ID)
	if len(list) != 3 || list[0].ID != precise.ID || !list[0].MeasuredAt.Equal(precise.MeasuredAt) {
		t.Fatalf("measuredAt must round-trip: create=%v list=%+v", precise.MeasuredAt, list)
	}
	if err := s.Weights().Delete(ctx, precise.ID, p.ID); err != nil {
		t.Fatalf("delete weight: %v", err)
	}

	if _, err := s.Weights().Update(ctx, early.ID, p.ID+1, weights.UpdateInput{WeightKg: 1}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("cross-pet update should be not found, got %v", err)
	}
	upd, err := s.Weights().Update(ctx, early.ID, p.ID, weights.UpdateInput{WeightKg: 11})
	if err != nil || upd.WeightKg != 11 || !upd.MeasuredAt.Equal(base) {
		t.Fatalf("update: %+v %v", upd, err)
	}

	if err := s.Pets().Delete(ctx, p.ID, owner); err != nil {
		t.Fatalf("delete pet: %v", err)
	}
	if list, _ := s.Weights().ListByPet(ctx, p.ID); len(list) != 0 {
		t.Fatalf("weights should cascade, got %d", len(list))
	}
	if _, err := s.Pets().GetByID(ctx, p.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
