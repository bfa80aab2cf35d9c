package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/medlearn/internal/progress"
	"github.com/example/medlearn/internal/scheduler"
)

func newExportCommand(a *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all review progress as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.progress().All(cmd.Context())
			if err != nil {
				return err
			}

			if outPath == "" || outPath == "-" {
				return progress.WriteSnapshot(cmd.OutOrStdout(), snap)
			}
			if err := progress.NewFileStore(outPath).Replace(snap); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d cards in %d decks to %s\n", snap.Cards(), len(snap), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func newRestoreCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <progress.json>",
		Short: "Load review progress from an export or backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err != nil {
				return fmt.Errorf("failed to open progress file: %w", err)
			}
			snap, err := progress.NewFileStore(args[0]).All(cmd.Context())
			if err != nil {
				return err
			}
			n, err := a.progress().Import(cmd.Context(), snap)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d cards in %d decks\n", n, len(snap))
			return nil
		},
	}
}

func newBackupCommand(a *app) *cobra.Command {
	var (
		once  bool
		dir   string
		keep  int
		every string
	)

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot review progress periodically until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = a.cfg.Backup.Dir
			}
			if !cmd.Flags().Changed("keep") {
				keep = a.cfg.Backup.Keep
			}
			if keep < 1 {
				return fmt.Errorf("--keep must be at least 1, got %d", keep)
			}
			interval := a.cfg.Backup.Every
			if every != "" {
				d, err := parseDuration(every)
				if err != nil {
					return err
				}
				interval = d
			}

			s := scheduler.New(a.progress(), filepath.Clean(dir), keep, a.logger)
			if once {
				path, err := s.RunOnce(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			}

			if err := s.Start(cmd.Context(), interval); err != nil {
				return err
			}
			a.logger.Info("backup scheduler started", zap.Duration("every", interval), zap.String("dir", dir))

			<-cmd.Context().Done()
			s.Stop()
			a.logger.Info("backup scheduler stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Write a single snapshot and exit")
	cmd.Flags().StringVar(&dir, "dir", "", "Backup directory (default MEDLEARN_BACKUP_DIR)")
	cmd.Flags().IntVar(&keep, "keep", 0, "Number of snapshots to keep, at least 1 (default MEDLEARN_BACKUP_KEEP)")
	cmd.Flags().StringVar(&every, "every", "", "Snapshot interval, e.g. 30m (default MEDLEARN_BACKUP_EVERY)")
	return cmd
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("interval must be positive, got %s", d)
	}
	return d, nil
}
