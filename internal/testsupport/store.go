package testsupport

import (
	"testing"

	"deadair/internal/config"
	"deadair/internal/history"
)

// MustOpenHistory opens the history database for cfg and closes it when the
// test ends.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
