package sqlite

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pet-weight-tracker/internal/apperr"
	"pet-weight-tracker/internal/domain/pets"
	"pet-weight-tracker/internal/domain/users"
	"pet-weight-tracker/internal/domain/weights"
	"pet-weight-tracker/internal/platform/logger"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	db, err := Open(filepath.Join(t.TempDir(), "pets_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := RunMigrations(ctx, db, logger.Nop()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	s := NewStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUsers_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	u, err := s.Users().Create(ctx, users.User{Email: "ana@example.com", Plan: users.PlanPremium})
	if err != nil || u.ID <= 0 {
		t.Fatalf("create user: %+v %v", u, err)
	}

	got, err := s.Users().GetByEmail(ctx, "ANA@example.com")
	if err != nil || got.ID != u.ID || got.Plan != users.PlanPremium {
		t.Fatalf("get by email: %+v %v", got, err)
	}

	if _, err := s.Users().Create(ctx, users.User{Email: "Ana@Example.com", Plan: users.PlanFree}); !errors.Is(err, users.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := s.Users().GetByID(ctx, 999); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPets_RoundTripAndUpdate(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	u, _ := s.Users().Create(ctx, users.User{Email: "ana@example.com", Plan: users.PlanFree})
	owner := u.ID
	breed := "Golden Retriever"
	birth := time.Date(2020, 6, 16, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

	p, err := s.Pets().Create(ctx, pets.Pet{
		UserID:    &owner,
		Name:      "Buddy",
		Species:   "Dog",
		Breed:     &breed,
		BirthDate: &birth,
		Gender:    pets.GenderMale,
		CreatedAt: created,
	})
	if err != nil {
		t.Fatalf("create pet: %v", err)
	}

	got, err := s.Pets().GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Buddy" || got.Breed == nil || *got.Breed != breed || got.Gender != pets.GenderMale {
		t.Fatalf("unexpected pet %+v", got)
	}
	if got.BirthDate == nil || !got.BirthDate.Equal(birth) || !got.CreatedAt.Equal(created) {
		t.Fatalf("dates did not round-trip: %+v", got)
	}

	got.Breed = nil
	got.Name = "Max"
	got.CreatedAt = time.Now()
	if err := s.Pets().Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	after, _ := s.Pets().GetByID(ctx, p.ID)
	if after.Name != "Max" || after.Breed != nil || !after.CreatedAt.Equal(created) {
		t.Fatalf("unexpected after update %+v", after)
	}

	stranger := owner + 1
	got.UserID = &stranger
	if err := s.Pets().Update(ctx, got); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("foreign owner update should be not found, got %v", err)
	}
}

func TestPets_ForeignKeyAndAssign(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	ghost := int64(42)
	if _, err := s.Pets().Create(ctx, pets.Pet{UserID: &ghost, Name: "x", Species: "y", Gender: pets.GenderUnknown, CreatedAt: time.Now()}); !errors.Is(err, ErrForeignKey) {
		t.Fatalf("expected ErrForeignKey, got %v", err)
	}

	for _, name := range []string{"Stray", "Tom"} {
		if _, err := s.Pets().Create(ctx, pets.Pet{Name: name, Species: "Cat", Gender: pets.GenderUnknown, CreatedAt: time.Now()}); err != nil {
			t.Fatalf("create unowned: %v", err)
		}
	}

	u, _ := s.Users().Create(ctx, users.User{Email: "ana@example.com", Plan: users.PlanFree})
	n, err := s.Pets().AssignUnowned(ctx, u.ID)
	if err != nil || n != 2 {
		t.Fatalf("assign: n=%d err=%v", n, err)
	}
	list, _ := s.Pets().ListByOwner(ctx, u.ID)
	if len(list) != 2 || list[0].Name != "Stray" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestWeights_OrderScopeAndCascade(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	u, _ := s.Users().Create(ctx, users.User{Email: "ana@example.com", Plan: users.PlanFree})
	owner := u.ID
	buddy, _ := s.Pets().Create(ctx, pets.Pet{UserID: &owner, Name: "Buddy", Species: "Dog", Gender: pets.GenderUnknown, CreatedAt: time.Now()})
	luna, _ := s.Pets().Create(ctx, pets.Pet{UserID: &owner, Name: "Luna", Species: "Cat", Gender: pets.GenderUnknown, CreatedAt: time.Now()})

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	third, _ := s.Weights().Create(ctx, weights.WeightLog{PetID: buddy.ID, WeightKg: 12.5, MeasuredAt: base.Add(72 * time.Hour)})
	first, _ := s.Weights().Create(ctx, weights.WeightLog{PetID: buddy.ID, WeightKg: 10, MeasuredAt: base})
	second, _ := s.Weights().Create(ctx, weights.WeightLog{PetID: buddy.ID, WeightKg: 11, MeasuredAt: base.Add(500 * time.Millisecond)})
	lunas, _ := s.Weights().Create(ctx, weights.WeightLog{PetID: luna.ID, WeightKg: 4, MeasuredAt: base})

	if _, err := s.Weights().Create(ctx, weights.WeightLog{PetID: 999, WeightKg: 1, MeasuredAt: base}); !errors.Is(err, ErrForeignKey) {
		t.Fatalf("expected ErrForeignKey, got %v", err)
	}

	list, err := s.Weights().ListByPet(ctx, buddy.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []int64{first.ID, second.ID, third.ID}
	for i, id := range want {
		if list[i].ID != id {
			t.Fatalf("position %d: got %d want %d", i, list[i].ID, id)
		}
	}

	byPet, _ := s.Weights().ListByPets(ctx, []int64{buddy.ID, luna.ID})
	if len(byPet[buddy.ID]) != 3 || len(byPet[luna.ID]) != 1 {
		t.Fatalf("unexpected grouping: %d/%d", len(byPet[buddy.ID]), len(byPet[luna.ID]))
	}

	if _, err := s.Weights().Update(ctx, lunas.ID, buddy.ID, weights.UpdateInput{WeightKg: 9}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("cross-pet update should be not found, got %v", err)
	}
	moved := base.Add(-time.Hour)
	upd, err := s.Weights().Update(ctx, third.ID, buddy.ID, weights.UpdateInput{WeightKg: 13, MeasuredAt: &moved})
	if err != nil || upd.WeightKg != 13 || !upd.MeasuredAt.Equal(moved) {
		t.Fatalf("update: %+v %v", upd, err)
	}

	if err := s.Weights().Delete(ctx, first.ID, buddy.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Weights().Delete(ctx, first.ID, buddy.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}

	if err := s.Pets().Delete(ctx, buddy.ID, owner); err != nil {
		t.Fatalf("delete pet: %v", err)
	}
	if list, _ := s.Weights().ListByPet(ctx, buddy.ID); len(list) != 0 {
		t.Fatalf("weights should cascade, got %d", len(list))
	}
}

func TestStore_Ping(t *testing.T) {
	if err := openTestStore(t).Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestRunMigrations_LogsThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Info, Format: logger.FormatJSON, Output: &buf})

	db, err := Open(filepath.Join(t.TempDir(), "migrate_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	s := NewStore(db)
	defer s.Close()

	if err := RunMigrations(context.Background(), db, log); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"component":"goose"`) || !strings.Contains(out, "00001_init.sql") {
		t.Fatalf("goose output should go through the logger, got %q", out)
	}
}
