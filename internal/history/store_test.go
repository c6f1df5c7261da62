package history

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"scribe/internal/services"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBeginFinishRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	clock := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	run, err := store.Begin(ctx, Run{Command: "youtube", Source: "https://youtu.be/dQw4w9WgXcQ", Model: "base", Format: "all"})
	if err != nil {
		t.Fatal(err)
	}
	if run.ID == "" || run.Status != StatusRunning || !run.StartedAt.Equal(clock) {
		t.Fatalf("unexpected run %+v", run)
	}
	if err := store.SetProject(ctx, run.ID, "youtube_dQw4w9WgXcQ"); err != nil {
		t.Fatal(err)
	}

	clock = clock.Add(90 * time.Second)
	if err := store.Finish(ctx, run.ID, nil); err != nil {
		t.Fatal(err)
	}

	got, ok, err := store.Get(ctx, run.ID)
	if err != nil || !ok {
		t.Fatalf("Get ok=%v err=%v", ok, err)
	}
	if got.Status != StatusSucceeded || got.Project != "youtube_dQw4w9WgXcQ" || got.Elapsed() != 90*time.Second {
		t.Fatalf("got %+v", got)
	}
}

func TestFinishClassifiesErrors(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	failed, _ := store.Begin(ctx, Run{Command: "audio", Source: "a.mp3"})
	notFound := services.Wrap(services.ErrNotFound, "transcription", "stat audio", "missing", nil)
	if err := store.Finish(ctx, failed.ID, notFound); err != nil {
		t.Fatal(err)
	}

	cancelledCtx, cancel := context.WithCancel(ctx)
	cancelled, _ := store.Begin(ctx, Run{Command: "audio", Source: "b.mp3"})
	cancel()
	if err := store.Finish(cancelledCtx, cancelled.ID, fmt.Errorf("transcribe: %w", context.Canceled)); err != nil {
		t.Fatalf("finish with cancelled context: %v", err)
	}

	got, _, _ := store.Get(ctx, failed.ID)
	if got.Status != StatusFailed || got.ErrorKind != "not_found" || got.ErrorMessage == "" {
		t.Fatalf("failed run = %+v", got)
	}
	got, _, _ = store.Get(ctx, cancelled.ID)
	if got.Status != StatusCancelled || got.ErrorKind != "cancelled" {
		t.Fatalf("cancelled run = %+v", got)
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		store.now = func() time.Time { return at }
		if _, err := store.Begin(ctx, Run{Command: "audio", Source: fmt.Sprintf("%d.mp3", i)}); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 || runs[0].Source != "4.mp3" || runs[2].Source != "2.mp3" {
		t.Fatalf("runs = %+v", runs)
	}
	all, err := store.Recent(ctx, 0)
	if err != nil || len(all) != 5 {
		t.Fatalf("default limit: %d runs, err=%v", len(all), err)
	}
}

func TestGetMissing(t *testing.T) {
	store := openTestStore(t)
	if _, ok, err := store.Get(context.Background(), "nope"); ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	run, err := store.Begin(context.Background(), Run{Command: "audio", Source: "a.mp3"})
	if err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, ok, err := reopened.Get(context.Background(), run.ID); !ok || err != nil {
		t.Fatalf("run lost after reopen: ok=%v err=%v", ok, err)
	}
}

func TestSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	if _, err := Open(path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}
