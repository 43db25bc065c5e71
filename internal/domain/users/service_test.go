package users

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"pet-weight-tracker/internal/apperr"
)

type testRepo struct {
	seq     int64
	byID    map[int64]User
	byEmail map[string]int64
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[int64]User{}, byEmail: map[string]int64{}}
}

func (r *testRepo) Create(_ context.Context, u User) (User, error) {
	key := strings.ToLower(u.Email)
	if _, ok := r.byEmail[key]; ok {
		return User{}, ErrEmailTaken
	}
	r.seq++
	u.ID = r.seq
	r.byID[u.ID] = u
	r.byEmail[key] = u.ID
	return u, nil
}

func (r *testRepo) GetByID(_ context.Context, id int64) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, apperr.ErrNotFound
	}
	return u, nil
}

func (r *testRepo) GetByEmail(_ context.Context, email string) (User, error) {
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return User{}, apperr.ErrNotFound
	}
	return r.byID[id], nil
}

func TestCreate(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	u, err := svc.Create(ctx, "  Ana@Example.com ", "")
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != 1 || u.Plan != PlanFree {
		t.Fatalf("unexpected user %+v", u)
	}

	p, err := svc.Create(ctx, "bob@example.com", "PREMIUM")
	if err != nil || p.Plan != PlanPremium {
		t.Fatalf("premium user: %+v %v", p, err)
	}

	cases := []struct {
		name, email, plan string
	}{
		{"duplicate email", "ana@example.com", "free"},
		{"bad email", "not-an-email", "free"},
		{"bad plan", "carla@example.com", "gold"},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, tc.email, tc.plan); apperr.Status(err) != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %v", tc.name, err)
		}
	}
}

func TestExistsAndGet(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	u, _ := svc.Create(ctx, "ana@example.com", "free")

	for id, want := range map[int64]bool{u.ID: true, 0: false, -1: false, 99: false} {
		got, err := svc.Exists(ctx, id)
		if err != nil || got != want {
			t.Fatalf("Exists(%d) = %v, %v; want %v", id, got, err, want)
		}
	}

	if _, err := svc.GetByID(ctx, 99); apperr.Status(err) != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}
