package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/medlearn/internal/database"
	"github.com/example/medlearn/internal/playlist"
	"github.com/example/medlearn/internal/session"
	"github.com/example/medlearn/pkg/models"
)

func newLessonsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lessons",
		Short: "Track progress through video lesson playlists",
	}
	cmd.AddCommand(
		newLessonsAddCommand(a),
		newLessonsListCommand(a),
		newLessonsOpenCommand(a),
		newLessonsDoneCommand(a),
	)
	return cmd
}

func (a *app) openPlaylist(ctx context.Context, courseID string) (*playlist.Tracker, playlist.Playlist, error) {
	lessons, err := database.NewLessonRepository(a.db).GetByCourse(ctx, courseID)
	if err != nil {
		return nil, playlist.Playlist{}, err
	}
	if len(lessons) == 0 {
		return nil, playlist.Playlist{}, fmt.Errorf("course %q has no lessons", courseID)
	}
	tracker := playlist.NewTracker(database.NewLessonProgressRepository(a.db), a.logger)
	return tracker, tracker.Open(ctx, courseID, lessons), nil
}

func newLessonsAddCommand(a *app) *cobra.Command {
	var (
		filename string
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "add <course> <title>",
		Short: "Append a lesson to a course playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lesson := &models.Lesson{
				CourseID:        args[0],
				Title:           args[1],
				Filename:        filename,
				DurationSeconds: int(duration / time.Second),
			}
			if err := database.NewLessonRepository(a.db).Create(cmd.Context(), lesson); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added lesson %d to %s: %s\n", lesson.ID, lesson.CourseID, lesson.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&filename, "file", "", "Video file name")
	cmd.Flags().DurationVar(&duration, "duration", 0, "Video length, e.g. 12m30s")
	return cmd
}

func newLessonsListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [course]",
		Short: "Show courses, or one course's playlist",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				courses, err := database.NewLessonRepository(a.db).Courses(ctx)
				if err != nil {
					return err
				}
				if len(courses) == 0 {
					fmt.Fprintln(out, "No lessons yet. Use 'medlearn lessons add' to add some.")
					return nil
				}
				rows := make([][]string, 0, len(courses))
				for _, c := range courses {
					_, p, err := a.openPlaylist(ctx, c.CourseID)
					if err != nil {
						return err
					}
					o := p.Overall()
					rows = append(rows, []string{c.CourseID, strconv.Itoa(c.Lessons), fmt.Sprintf("%d%%", o.Percent)})
				}
				fmt.Fprintln(out, renderTable([]string{"Course", "Lessons", "Complete"}, rows,
					[]columnAlignment{alignLeft, alignRight, alignRight}))
				return nil
			}

			_, p, err := a.openPlaylist(ctx, args[0])
			if err != nil {
				return err
			}
			printPlaylist(cmd, p)
			return nil
		},
	}
}

func newLessonsOpenCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open <course> <number>",
		Short: "Make a lesson the current one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid lesson number %q", args[1])
			}
			tracker, p, err := a.openPlaylist(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			p, ok := p.Select(n - 1)
			if !ok {
				return fmt.Errorf("lesson %d out of range 1-%d", n, len(p.Lessons))
			}
			tracker.Save(cmd.Context(), p)
			printPlaylist(cmd, p)
			return nil
		},
	}
}

func newLessonsDoneCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <course> [number]",
		Short: "Mark a lesson watched; without a number, finish the current one and move on",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, p, err := a.openPlaylist(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid lesson number %q", args[1])
				}
				if n < 1 || n > len(p.Lessons) {
					return fmt.Errorf("lesson %d out of range 1-%d", n, len(p.Lessons))
				}
				p, _ = p.MarkCompleted(n - 1)
			} else {
				p = p.Finish()
			}

			tracker.Save(cmd.Context(), p)
			printPlaylist(cmd, p)
			return nil
		},
	}
}

func printPlaylist(cmd *cobra.Command, p playlist.Playlist) {
	rows := make([][]string, 0, len(p.Lessons))
	for i, l := range p.Lessons {
		mark := strconv.Itoa(i + 1)
		switch {
		case p.IsCompleted(i):
			mark = "✓"
		case i == p.Current:
			mark = "▶"
		}
		length := "--:--"
		if l.DurationSeconds > 0 {
			length = session.FormatElapsed(time.Duration(l.DurationSeconds) * time.Second)
		}
		rows = append(rows, []string{mark, l.Title, length})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable([]string{"#", "Lesson", "Length"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignRight}))
	fmt.Fprintf(out, "%d%% Complete\n", p.Overall().Percent)
}
