package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"deadair/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBeginCompleteRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	rec, err := store.Begin(ctx, "run-1", "/videos/talk.mp4")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if rec.ID == 0 || rec.Status != history.StatusRunning {
		t.Fatalf("unexpected record %+v", rec)
	}

	done, err := store.Completed(ctx, "/videos/talk.mp4")
	if err != nil {
		t.Fatalf("Completed: %v", err)
	}
	if done {
		t.Fatal("running record must not count as completed")
	}

	outcome := history.Outcome{
		OutputPath:     "/out/talk_silenced.mp4",
		Silences:       4,
		Clips:          3,
		Crossfades:     2,
		SourceSeconds:  60,
		KeptSeconds:    52,
		RemovedSeconds: 8,
	}
	if err := store.Complete(ctx, rec, outcome); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	fetched, err := store.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fetched.Status != history.StatusCompleted || fetched.OutputPath != outcome.OutputPath {
		t.Fatalf("unexpected fetched record %+v", fetched)
	}
	if fetched.Clips != 3 || fetched.Crossfades != 2 || fetched.KeptSeconds != 52 {
		t.Fatalf("outcome not persisted: %+v", fetched)
	}
	if fetched.StartedAt.IsZero() || fetched.FinishedAt.IsZero() {
		t.Fatalf("timestamps not persisted: %+v", fetched)
	}

	done, err = store.Completed(ctx, "/videos/talk.mp4")
	if err != nil || !done {
		t.Fatalf("expected completed, got %v %v", done, err)
	}
}

func TestFailRecordsStatusAndMessage(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	rec, err := store.Begin(ctx, "run-1", "/videos/broken.mp4")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := store.Fail(ctx, rec, history.StatusReview, errors.New("nothing to keep")); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	fetched, err := store.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fetched.Status != history.StatusReview || fetched.ErrorMessage != "nothing to keep" {
		t.Fatalf("unexpected record %+v", fetched)
	}

	other, _ := store.Begin(ctx, "run-1", "/videos/other.mp4")
	if err := store.Fail(ctx, other, history.StatusCompleted, errors.New("boom")); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if other.Status != history.StatusFailed {
		t.Fatalf("completed is not a failure status, got %s", other.Status)
	}
}

func TestListFiltersAndOrders(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	var ids []int64
	for i, path := range []string{"/a.mp4", "/b.mp4", "/c.mp4"} {
		runID := "run-1"
		if i == 2 {
			runID = "run-2"
		}
		rec, err := store.Begin(ctx, runID, path)
		if err != nil {
			t.Fatalf("Begin: %v", err)
		}
		ids = append(ids, rec.ID)
		if i == 0 {
			if err := store.Complete(ctx, rec, history.Outcome{OutputPath: "/out/a.mp4"}); err != nil {
				t.Fatalf("Complete: %v", err)
			}
		}
	}

	all, err := store.List(ctx, history.Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ID != ids[2] || all[2].ID != ids[0] {
		t.Fatalf("expected newest first, got %+v", all)
	}

	running, err := store.List(ctx, history.Filter{Statuses: []history.Status{history.StatusRunning}})
	if err != nil {
		t.Fatalf("List running: %v", err)
	}
	if len(running) != 2 {
		t.Fatalf("expected 2 running records, got %d", len(running))
	}

	byRun, err := store.List(ctx, history.Filter{RunID: "run-2", Limit: 5})
	if err != nil {
		t.Fatalf("List by run: %v", err)
	}
	if len(byRun) != 1 || byRun[0].SourcePath != "/c.mp4" {
		t.Fatalf("unexpected run filter result %+v", byRun)
	}

	limited, err := store.List(ctx, history.Filter{Limit: 1})
	if err != nil || len(limited) != 1 {
		t.Fatalf("expected limit 1, got %d (%v)", len(limited), err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats[history.StatusCompleted] != 1 || stats[history.StatusRunning] != 2 {
		t.Fatalf("unexpected stats %v", stats)
	}

	n, err := store.AbandonRunning(ctx, "interrupted")
	if err != nil || n != 2 {
		t.Fatalf("AbandonRunning = %d, %v", n, err)
	}
	stats, _ = store.Stats(ctx)
	if stats[history.StatusFailed] != 2 {
		t.Fatalf("expected abandoned records to fail, got %v", stats)
	}
}

func TestGetMissingRecord(t *testing.T) {
	store := openStore(t)
	if _, err := store.Get(context.Background(), 999); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.Begin(context.Background(), "run-1", "/a.mp4"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	_ = store.Close()

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	records, err := reopened.List(context.Background(), history.Filter{})
	if err != nil || len(records) != 1 {
		t.Fatalf("expected persisted record, got %d (%v)", len(records), err)
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := history.ParseStatus(" Completed "); !ok || status != history.StatusCompleted {
		t.Fatalf("unexpected parse result %v %v", status, ok)
	}
	if _, ok := history.ParseStatus("pending"); ok {
		t.Fatal("unknown status should not parse")
	}
}
