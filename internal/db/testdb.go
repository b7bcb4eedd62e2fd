package db

import (
	"database/sql"
	"testing"
)

// OpenMemory opens a fresh in-memory SQLite database with the schema applied.
func OpenMemory() (*sql.DB, error) {
	db, err := Open(MemoryPath)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// NewTestDB creates a fresh in-memory SQLite database with the schema applied.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
