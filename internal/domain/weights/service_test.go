package weights

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"testing"
	"time"

	"pet-weight-tracker/internal/apperr"
	"pet-weight-tracker/internal/validation"
)

// -------------------------
// Fakes
// -------------------------

type testRepo struct {
	seq  int64
	byID map[int64]WeightLog
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[int64]WeightLog{}}
}

func (r *testRepo) Create(_ context.Context, w WeightLog) (WeightLog, error) {
	r.seq++
	w.ID = r.seq
	r.byID[w.ID] = w
	return w, nil
}

func (r *testRepo) ListByPet(_ context.Context, petID int64) ([]WeightLog, error) {
	out := make([]WeightLog, 0)
	for _, w := range r.byID {
		if w.PetID == petID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].MeasuredAt.Equal(out[j].MeasuredAt) {
			return out[i].MeasuredAt.Before(out[j].MeasuredAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *testRepo) ListByPets(ctx context.Context, petIDs []int64) (map[int64][]WeightLog, error) {
	out := map[int64][]WeightLog{}
	for _, id := range petIDs {
		ws, _ := r.ListByPet(ctx, id)
		out[id] = ws
	}
	return out, nil
}

func (r *testRepo) Update(_ context.Context, id, petID int64, in UpdateInput) (WeightLog, error) {
	w, ok := r.byID[id]
	if !ok || w.PetID != petID {
		return WeightLog{}, apperr.ErrNotFound
	}
	w.WeightKg = in.WeightKg
	if in.MeasuredAt != nil {
		w.MeasuredAt = *in.MeasuredAt
	}
	r.byID[id] = w
	return w, nil
}

func (r *testRepo) Delete(_ context.Context, id, petID int64) error {
	w, ok := r.byID[id]
	if !ok || w.PetID != petID {
		return apperr.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// testPets: petID -> owner. Una mascota ausente da NotFound.
type testPets map[int64]int64

func (p testPets) OwnerOf(_ context.Context, petID int64) (int64, error) {
	owner, ok := p[petID]
	if !ok {
		return 0, apperr.NotFound("Pet")
	}
	return owner, nil
}

var now = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestService(repo *testRepo) *Service {
	// Mascotas 1 y 2 de user 1, 3 de user 2, 4 sin dueño.
	svc := NewService(repo, testPets{1: 1, 2: 1, 3: 2, 4: 0})
	svc.now = func() time.Time { return now }
	return svc
}

func at(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func mustStatus(t *testing.T, err error, want int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", want)
	}
	if got := apperr.Status(err); got != want {
		t.Fatalf("status = %d, want %d (err=%v)", got, want, err)
	}
}

// -------------------------
// Tests
// -------------------------

func TestCreate_DefaultsMeasuredAtToNow(t *testing.T) {
	svc := newTestService(newTestRepo())

	w, err := svc.Create(context.Background(), 1, 1, validation.WeightFields{WeightKg: 12.5})
	if err != nil {
		t.Fatal(err)
	}
	if w.ID <= 0 || w.PetID != 1 || w.WeightKg != 12.5 || !w.MeasuredAt.Equal(now) {
		t.Fatalf("unexpected weight %+v", w)
	}
}

func TestCreate_Authorization(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	in := validation.WeightFields{WeightKg: 3}

	_, err := svc.Create(ctx, 0, 1, in)
	mustStatus(t, err, http.StatusUnauthorized)

	// Ajena, sin dueño e inexistente se ven igual.
	for _, petID := range []int64{3, 4, 99} {
		_, err = svc.Create(ctx, 1, petID, in)
		mustStatus(t, err, http.StatusNotFound)
		var nf *apperr.NotFoundError
		if !errors.As(err, &nf) || nf.Entity != "Pet" {
			t.Fatalf("pet %d: expected Pet not found, got %v", petID, err)
		}
	}

	_, err = svc.Create(ctx, 1, 1, validation.WeightFields{WeightKg: -1})
	mustStatus(t, err, http.StatusBadRequest)

	if len(repo.byID) != 0 {
		t.Fatalf("no rows expected, got %d", len(repo.byID))
	}
}

func TestList_Chronological(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	b, _ := svc.Create(ctx, 1, 1, validation.WeightFields{WeightKg: 2, MeasuredAt: at("2024-06-10T00:00:00Z")})
	a, _ := svc.Create(ctx, 1, 1, validation.WeightFields{WeightKg: 1, MeasuredAt: at("2024-06-01T00:00:00Z")})
	c, _ := svc.Create(ctx, 1, 1, validation.WeightFields{WeightKg: 3, MeasuredAt: at("2024-06-10T00:00:00Z")})
	_, _ = svc.Create(ctx, 1, 2, validation.WeightFields{WeightKg: 9})

	list, err := svc.List(ctx, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{a.ID, b.ID, c.ID}
	if len(list) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(list))
	}
	for i, id := range want {
		if list[i].ID != id {
			t.Fatalf("position %d: id %d, want %d", i, list[i].ID, id)
		}
	}

	_, err = svc.List(ctx, 2, 1)
	mustStatus(t, err, http.StatusNotFound)
}

func TestUpdate_ScopedToPet(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	w, _ := svc.Create(ctx, 1, 2, validation.WeightFields{WeightKg: 4.2, MeasuredAt: at("2024-06-01T00:00:00Z")})

	// Mismo dueño, otra mascota: el registro no le pertenece.
	_, err := svc.Update(ctx, 1, 1, w.ID, validation.WeightFields{WeightKg: 30})
	mustStatus(t, err, http.StatusNotFound)
	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) || nf.Entity != "Weight" {
		t.Fatalf("expected Weight not found, got %v", err)
	}
	if repo.byID[w.ID].WeightKg != 4.2 {
		t.Fatal("cross-pet update must not modify the row")
	}

	// Sin measuredAt se conserva el anterior.
	upd, err := svc.Update(ctx, 1, 2, w.ID, validation.WeightFields{WeightKg: 4.5})
	if err != nil {
		t.Fatal(err)
	}
	if upd.WeightKg != 4.5 || !upd.MeasuredAt.Equal(*at("2024-06-01T00:00:00Z")) {
		t.Fatalf("unexpected update %+v", upd)
	}

	_, err = svc.Update(ctx, 1, 2, w.ID, validation.WeightFields{WeightKg: 0})
	mustStatus(t, err, http.StatusBadRequest)
}

func TestDelete_ScopedAndNotIdempotent(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	w, _ := svc.Create(ctx, 1, 1, validation.WeightFields{WeightKg: 10})

	mustStatus(t, svc.Delete(ctx, 1, 2, w.ID), http.StatusNotFound)
	mustStatus(t, svc.Delete(ctx, 2, 1, w.ID), http.StatusNotFound)

	if err := svc.Delete(ctx, 1, 1, w.ID); err != nil {
		t.Fatal(err)
	}
	mustStatus(t, svc.Delete(ctx, 1, 1, w.ID), http.StatusNotFound)
}
