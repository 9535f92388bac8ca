package watcher

import (
	"os"
	"testing"

	"github.com/blackwell-systems/reviewlens/internal/ingest"
	"github.com/blackwell-systems/reviewlens/internal/store"
)

// setupTestStore creates an in-memory SQLite store for tests and registers
// cleanup with t.Cleanup so callers don't need explicit defer.
func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("setupTestStore: open: %v", err)
	}
	if err := st.CreateSchema(); err != nil {
		st.Close()
		t.Fatalf("setupTestStore: schema: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// reimportInto returns an Action that replaces the store contents with the
// CSV at path.
func reimportInto(st *store.Store) Action {
	return func(path string) error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		res, err := ingest.Load(f, ingest.Options{})
		if err != nil {
			return err
		}
		if err := st.Reset(); err != nil {
			return err
		}
		return st.InsertReviews(res.Rows)
	}
}
