package testutil

import (
	"context"
	"testing"

	"github.com/alexanderramin/meetmeter/internal/db"
)

// NewTestDB creates an in-memory SQLite store with all migrations applied.
// The store is closed when the test completes.
func NewTestDB(t *testing.T) *db.Store {
	t.Helper()
	store, err := db.Open(context.Background(), ":memory:", "test")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
