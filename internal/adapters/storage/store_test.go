package storage_test

import (
	"pet-weight-tracker/internal/adapters/storage"
	"pet-weight-tracker/internal/adapters/storage/memory"
	"pet-weight-tracker/internal/adapters/storage/postgres"
	"pet-weight-tracker/internal/adapters/storage/sqlite"
)

var (
	_ storage.Store = (*memory.Store)(nil)
	_ storage.Store = (*postgres.Store)(nil)
	_ storage.Store = (*sqlite.Store)(nil)
)
