package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	mem "pet-weight-tracker/internal/adapters/storage/memory"
	"pet-weight-tracker/internal/config"
	"pet-weight-tracker/internal/domain/users"
	"pet-weight-tracker/internal/platform/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:            "0",
		ShutdownTimeout: time.Second,
		DBDriver:        config.DriverMemory,
		SQLitePath:      filepath.Join(t.TempDir(), "pets.db"),
		AutoMigrate:     true,
		UserHeader:      "X-User-ID",
	}
}

func TestOpenStore_Memory(t *testing.T) {
	store, err := OpenStore(context.Background(), testConfig(t), logger.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := store.(*mem.Store); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}
}

func TestOpenStore_SQLiteAppliesMigrations(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBDriver = config.DriverSQLite
	ctx := context.Background()

	store, err := OpenStore(ctx, cfg, logger.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	u, err := store.Users().Create(ctx, users.User{Email: "ana@example.com", Plan: users.PlanFree})
	if err != nil || u.ID <= 0 {
		t.Fatalf("users table should exist after migrations: %+v %v", u, err)
	}
}

func TestMigrate_SQLiteIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBDriver = config.DriverSQLite

	for i := 0; i < 2; i++ {
		if err := Migrate(context.Background(), cfg, logger.Nop()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBDriver = "mongo"
	if _, err := OpenStore(context.Background(), cfg, logger.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNewHandler_RateLimitAndAuthMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimitPerMinute = 1
	cfg.JWTSecret = "s3cret"

	h, stop := NewHandler(cfg, mem.New(), logger.Nop())
	defer stop()

	// Con secreto, el header solo no autentica.
	req := httptest.NewRequest(http.MethodGet, "/pets", nil)
	req.Header.Set("X-User-ID", "1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pets", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", rec.Code)
	}
}

func TestVerifier_HeaderModeWithoutSecret(t *testing.T) {
	if v := Verifier(testConfig(t)); v != nil {
		t.Fatalf("expected nil verifier, got %T", v)
	}
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- run(ctx, srv, time.Second, logger.Nop()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
