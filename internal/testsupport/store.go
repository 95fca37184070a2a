package testsupport

import (
	"testing"

	"execlink/internal/config"
	"execlink/internal/store"
)

// MustOpenStore opens a run store for the given config and fails the test when
// that does not work. The store is closed automatically during cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}
