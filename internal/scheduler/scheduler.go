package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/example/medlearn/internal/progress"
)

const backupPrefix = "progress-"

// Source provides the progress to back up
type Source interface {
	All(ctx context.Context) (progress.Snapshot, error)
}

// Scheduler periodically snapshots review progress to JSON files
type Scheduler struct {
	scheduler *gocron.Scheduler
	source    Source
	dir       string
	keep      int
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a new scheduler instance writing into dir and keeping the newest keep files.
// keep below 1 is raised to 1 so the snapshot just written is never pruned.
func New(source Source, dir string, keep int, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if keep < 1 {
		keep = 1
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		source:    source,
		dir:       dir,
		keep:      keep,
		logger:    logger,
		now:       time.Now,
	}
}

// Start runs a backup immediately and then every interval, without blocking
func (s *Scheduler) Start(ctx context.Context, every time.Duration) error {
	_, err := s.scheduler.Every(every).StartImmediately().Do(func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("progress backup failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule backup: %w", err)
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunOnce writes one snapshot and prunes old ones. It returns the new file path.
func (s *Scheduler) RunOnce(ctx context.Context) (string, error) {
	snap, err := s.source.All(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read progress: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := backupPrefix + s.now().UTC().Format("20060102T150405.000") + ".json"
	path := filepath.Join(s.dir, name)
	if err := progress.NewFileStore(path).Replace(snap); err != nil {
		return "", err
	}

	s.logger.Info("progress backup written",
		zap.String("path", path),
		zap.Int("decks", len(snap)),
		zap.Int("cards", snap.Cards()),
	)

	if err := s.prune(); err != nil {
		s.logger.Warn("failed to prune old backups", zap.Error(err))
	}
	return path, nil
}

// Backups lists backup files, oldest first
func (s *Scheduler) Backups() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), backupPrefix) && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	// Timestamped names sort chronologically
	sort.Strings(names)

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(s.dir, n)
	}
	return paths, nil
}

func (s *Scheduler) prune() error {
	paths, err := s.Backups()
	if err != nil {
		return err
	}
	for len(paths) > 0 && len(paths) > s.keep {
		if err := os.Remove(paths[0]); err != nil {
			return err
		}
		s.logger.Debug("removed old backup", zap.String("path", paths[0]))
		paths = paths[1:]
	}
	return nil
}
