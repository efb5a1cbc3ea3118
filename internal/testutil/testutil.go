// Package testutil provides shared test fixtures.
package testutil

import (
	"os"
	"testing"

	"carrental/internal/store"
)

// TestStore opens a temporary SQLite-backed store that is removed when the
// test finishes.
func TestStore(t *testing.T) store.Store {
	t.Helper()

	dbFile, err := os.CreateTemp("", "carrental-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	st, err := store.OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}
