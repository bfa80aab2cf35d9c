package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/medlearn/internal/database"
	"github.com/example/medlearn/internal/excel"
	"github.com/example/medlearn/pkg/models"
)

func newImportCommand(a *app) *cobra.Command {
	cfg := excel.DefaultImportConfig()

	cmd := &cobra.Command{
		Use:   "import <file.xlsx|file.csv>",
		Short: "Import flashcards from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.FilePath = args[0]
			im := excel.NewImporter(database.NewDeckRepository(a.db), database.NewCardRepository(a.db))

			result, err := im.Import(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Processed %d rows: %d created, %d updated, %d skipped, %d new decks\n",
				result.TotalProcessed, result.Created, result.Updated, result.Skipped, result.DecksCreated)
			for _, e := range result.Errors {
				fmt.Fprintln(out, "  "+e)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.SheetName, "sheet", "", "Sheet to read (default: active sheet)")
	cmd.Flags().IntVar(&cfg.StartRow, "start-row", cfg.StartRow, "First data row (1-based)")
	cmd.Flags().StringVar(&cfg.DeckColumn, "deck-col", cfg.DeckColumn, "Column holding the deck name")
	cmd.Flags().StringVar(&cfg.QuestionColumn, "question-col", cfg.QuestionColumn, "Column holding the question")
	cmd.Flags().StringVar(&cfg.AnswerColumn, "answer-col", cfg.AnswerColumn, "Column holding the answer")
	cmd.Flags().StringVar(&cfg.CategoryColumn, "category-col", cfg.CategoryColumn, "Column holding the category")
	cmd.Flags().StringVar(&cfg.IconColumn, "icon-col", cfg.IconColumn, "Column holding the deck icon")
	return cmd
}

func newDecksCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decks",
		Short: "List decks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			decks, err := database.NewDeckRepository(a.db).GetAll(cmd.Context())
			if err != nil {
				return err
			}
			counts, err := database.NewCardRepository(a.db).CountByDeck(cmd.Context())
			if err != nil {
				return err
			}

			if len(decks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No decks yet. Use 'medlearn import' to add some.")
				return nil
			}

			rows := make([][]string, 0, len(decks))
			for _, d := range decks {
				rows = append(rows, []string{d.ID, deckLabel(d), strconv.Itoa(counts[d.ID])})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Cards"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}

func newStatsCommand(a *app) *cobra.Command {
	var deckID string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show new, review and mastered counts per deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			decks, err := database.NewDeckRepository(a.db).GetAll(ctx)
			if err != nil {
				return err
			}

			svc := a.reviewService()
			cards := database.NewCardRepository(a.db)
			activity := database.NewStatisticsRepository(a.db)
			quizzes := database.NewQuizResultRepository(a.db)

			var rows [][]string
			for _, d := range decks {
				if deckID != "" && d.ID != deckID {
					continue
				}
				deckCards, err := cards.GetByDeck(ctx, d.ID)
				if err != nil {
					return err
				}
				stats := svc.Stats(ctx, d.ID, cardIDs(deckCards))
				act, err := activity.DeckActivity(ctx, d.ID)
				if err != nil {
					return err
				}
				history, err := quizzes.GetByDeck(ctx, d.ID)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					d.ID,
					strconv.Itoa(stats.New),
					strconv.Itoa(stats.Review),
					strconv.Itoa(stats.Mastered),
					strconv.Itoa(act.TotalReviews),
					quizSummary(act),
					lastQuiz(history),
				})
			}

			if len(rows) == 0 {
				if deckID != "" {
					return fmt.Errorf("deck %q not found", deckID)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "No decks yet.")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Deck", "New", "Review", "Mastered", "Ratings", "Quizzes", "Last quiz"}, rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&deckID, "deck", "", "Only show this deck")
	return cmd
}

func quizSummary(act *database.DeckActivity) string {
	if act.Quizzes == 0 {
		return "-"
	}
	return fmt.Sprintf("%d taken, avg %.0f%%, best %d%%", act.Quizzes, act.AvgPercent, act.BestPercent)
}

// lastQuiz describes the newest result; history is ordered newest first
func lastQuiz(history []models.QuizResult) string {
	if len(history) == 0 {
		return "-"
	}
	r := history[0]
	return fmt.Sprintf("%d/%d on %s", r.Correct, r.Total, r.TakenAt.Local().Format("2006-01-02"))
}

func deckLabel(d models.Deck) string {
	if d.Icon == "" {
		return d.Name
	}
	return d.Icon + " " + d.Name
}

func cardIDs(cards []models.Card) []int {
	ids := make([]int, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}
