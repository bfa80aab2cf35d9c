package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/medlearn/internal/progress"
	"github.com/example/medlearn/pkg/models"
)

type errSource struct{}

func (errSource) All(context.Context) (progress.Snapshot, error) {
	return nil, errors.New("database is locked")
}

func TestRunOnceWritesRestorableSnapshot(t *testing.T) {
	store := progress.NewMemoryStore()
	ctx := context.Background()
	want := models.ReviewState{Interval: 13, EaseFactor: 2.22, Reviews: 3, LastReview: 1761000000000}
	_ = store.Put(ctx, "neurology", 2, want)

	s := New(store, t.TempDir(), 3, nil)
	path, err := s.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	got, err := progress.NewFileStore(path).Get(ctx, "neurology", 2)
	if err != nil {
		t.Fatalf("reading backup: %v", err)
	}
	if got == nil || *got != want {
		t.Fatalf("backup has %+v, want %+v", got, want)
	}
}

func TestRunOnceKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	s := New(progress.NewMemoryStore(), dir, 2, nil)

	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	var written []string
	for i := 0; i < 4; i++ {
		path, err := s.RunOnce(context.Background())
		if err != nil {
			t.Fatalf("RunOnce #%d: %v", i+1, err)
		}
		written = append(written, path)
		clock = clock.Add(time.Hour)
	}

	backups, err := s.Backups()
	if err != nil {
		t.Fatalf("Backups: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("expected 2 backups, got %v", backups)
	}
	if backups[0] != written[2] || backups[1] != written[3] {
		t.Fatalf("kept %v, want the last two of %v", backups, written)
	}
	if filepath.Dir(backups[0]) != dir {
		t.Fatalf("backup outside dir: %s", backups[0])
	}
}

func TestRunOnceNonPositiveKeepRetainsLatest(t *testing.T) {
	for _, keep := range []int{0, -1} {
		dir := t.TempDir()
		s := New(progress.NewMemoryStore(), dir, keep, nil)
		clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		s.now = func() time.Time { return clock }

		var last string
		for i := 0; i < 3; i++ {
			path, err := s.RunOnce(context.Background())
			if err != nil {
				t.Fatalf("keep %d: RunOnce #%d: %v", keep, i+1, err)
			}
			last = path
			clock = clock.Add(time.Minute)
		}

		backups, err := s.Backups()
		if err != nil {
			t.Fatalf("Backups: %v", err)
		}
		if len(backups) != 1 || backups[0] != last {
			t.Fatalf("keep %d: kept %v, want only %s", keep, backups, last)
		}
	}
}

func TestRunOnceSourceError(t *testing.T) {
	s := New(errSource{}, t.TempDir(), 1, nil)
	if _, err := s.RunOnce(context.Background()); err == nil {
		t.Fatal("expected error from failing source")
	}
}

func TestStartRunsImmediately(t *testing.T) {
	dir := t.TempDir()
	s := New(progress.NewMemoryStore(), dir, 5, nil)
	if err := s.Start(context.Background(), time.Hour); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		backups, _ := s.Backups()
		if len(backups) == 1 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("no backup written after Start")
}
