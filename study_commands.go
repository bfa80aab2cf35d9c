package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/medlearn/internal/database"
	"github.com/example/medlearn/internal/quiz"
	"github.com/example/medlearn/internal/session"
	sr "github.com/example/medlearn/internal/spaced_repetition"
	"github.com/example/medlearn/pkg/models"
)

func loadDeckCards(ctx context.Context, a *app, deckID string) (*models.Deck, []models.Card, error) {
	if deckID == "" {
		return nil, nil, errors.New("--deck is required")
	}
	deck, err := database.NewDeckRepository(a.db).GetByID(ctx, deckID)
	if err != nil {
		return nil, nil, err
	}
	if deck == nil {
		return nil, nil, fmt.Errorf("deck %q not found", deckID)
	}
	cards, err := database.NewCardRepository(a.db).GetByDeck(ctx, deckID)
	if err != nil {
		return nil, nil, err
	}
	if len(cards) == 0 {
		return nil, nil, fmt.Errorf("deck %q has no cards", deckID)
	}
	return deck, cards, nil
}

func seedOrNow(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

func newReviewCommand(a *app) *cobra.Command {
	var (
		deckID string
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Study a deck card by card and rate your recall",
		Long: `Study a deck card by card.

  enter  show the answer
  1-4    rate recall (1 Again, 2 Hard, 3 Good, 4 Easy)
  p      previous card
  r      restart with a new order
  q      quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			deck, cards, err := loadDeckCards(ctx, a, deckID)
			if err != nil {
				return err
			}
			byID := make(map[int]models.Card, len(cards))
			for _, c := range cards {
				byID[c.ID] = c
			}

			rnd := session.NewRand(seedOrNow(seed))
			svc := a.reviewService()
			sess := session.New(deck.ID, cardIDs(cards), rnd, time.Now())
			a.logger.Debug("review session started", zap.String("session", sess.ID), zap.String("deck", deck.ID))

			out := cmd.OutOrStdout()
			in := bufio.NewScanner(cmd.InOrStdin())
			fmt.Fprintf(out, "%s: %d cards\n", deckLabel(*deck), len(cards))

			for !sess.Done() {
				id, _ := sess.Current()
				card := byID[id]
				pos, total := sess.Progress()
				if sess.Flipped {
					fmt.Fprintf(out, "\nA: %s\nRate 1-4 > ", card.Answer)
				} else {
					fmt.Fprintf(out, "\n[%d/%d] %s [%s]\nQ: %s\n> ", pos, total, card.Category,
						svc.Classify(ctx, deck.ID, id), card.Question)
				}

				if !in.Scan() {
					break
				}
				input := strings.TrimSpace(in.Text())

				switch strings.ToLower(input) {
				case "", "f", "flip":
					sess = sess.Flip()
					continue
				case "p", "prev":
					sess = sess.Previous()
					continue
				case "r", "reset":
					sess = sess.Reset(rnd, time.Now())
					continue
				case "q", "quit":
					printReviewSummary(out, sess)
					printSessionRecap(ctx, a, out, sess.ID, byID)
					return nil
				}

				rating, err := sr.ParseRating(input)
				if err != nil {
					fmt.Fprintln(out, "Unknown input, press enter to flip or 1-4 to rate")
					continue
				}
				next, state, err := svc.Rate(ctx, sess, rating)
				if err != nil {
					fmt.Fprintln(out, err)
					continue
				}
				sess = next
				fmt.Fprintf(out, "%s: next review in %s\n", rating, formatInterval(state.Interval))
			}

			if err := in.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			printReviewSummary(out, sess)
			printSessionRecap(ctx, a, out, sess.ID, byID)
			return nil
		},
	}

	cmd.Flags().StringVar(&deckID, "deck", "", "Deck to study")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Shuffle seed (default random)")
	return cmd
}

func printReviewSummary(out io.Writer, sess session.State) {
	sum := sess.Summary(time.Now())
	fmt.Fprintf(out, "\nSession complete: %d cards studied, %d correct, time %s\n",
		sum.CardsStudied, sum.Correct, session.FormatElapsed(sum.Elapsed))
}

// printSessionRecap lists every rating the session wrote to the review log
func printSessionRecap(ctx context.Context, a *app, out io.Writer, sessionID string, cards map[int]models.Card) {
	entries, err := database.NewReviewLogRepository(a.db).GetBySession(ctx, sessionID)
	if err != nil {
		a.logger.Warn("failed to load session recap", zap.Error(err))
		return
	}
	if len(entries) == 0 {
		return
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			truncate(cards[e.CardID].Question, 48),
			sr.Rating(e.Rating).String(),
			formatInterval(e.Interval),
			strconv.FormatFloat(e.EaseFactor, 'f', 2, 64),
		})
	}
	fmt.Fprintln(out, renderTable([]string{"Card", "Rating", "Next review", "Ease"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight}))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func formatInterval(days int) string {
	switch days {
	case 0:
		return "this session"
	case 1:
		return "1 day"
	default:
		return strconv.Itoa(days) + " days"
	}
}

func newQuizCommand(a *app) *cobra.Command {
	var (
		deckID    string
		category  string
		count     int
		seed      int64
		timeLimit time.Duration
	)

	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Take a multiple-choice quiz built from a deck",
		Long: `Take a multiple-choice quiz built from a deck.

  1-n    choose an option
  enter  skip to the next question
  p      previous question
  q      finish now

Questions answered wrong can be retried once the quiz is over.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			deck, cards, err := loadDeckCards(ctx, a, deckID)
			if err != nil {
				return err
			}
			cards = quiz.FilterCategory(cards, category)
			if len(cards) == 0 {
				return fmt.Errorf("deck %q has no cards in category %q", deck.ID, category)
			}

			rnd := session.NewRand(seedOrNow(seed))
			questions := quiz.Build(cards, count, a.cfg.QuizOptions, rnd)

			out := cmd.OutOrStdout()
			in := bufio.NewScanner(cmd.InOrStdin())

			state, err := runQuiz(out, in, quiz.Start(questions, time.Now(), timeLimit))
			if err != nil {
				return err
			}
			result := state.Result(time.Now())
			printQuizResult(out, result)

			record := &models.QuizResult{
				SessionID:       uuid.NewString(),
				DeckID:          deck.ID,
				Total:           result.Total,
				Correct:         result.Correct,
				Percent:         result.Percent,
				DurationSeconds: int(result.Elapsed / time.Second),
			}
			if err := database.NewQuizResultRepository(a.db).Create(ctx, record); err != nil {
				a.logger.Warn("failed to save quiz result", zap.Error(err))
			}

			// Retries are practice only and are not recorded.
			for {
				retry := state.Missed(time.Now())
				if len(retry.Questions) == 0 {
					return nil
				}
				fmt.Fprintf(out, "\nReview %d missed question(s)? [y/N] ", len(retry.Questions))
				if !in.Scan() || !strings.HasPrefix(strings.ToLower(strings.TrimSpace(in.Text())), "y") {
					return in.Err()
				}
				if state, err = runQuiz(out, in, retry); err != nil {
					return err
				}
				printQuizResult(out, state.Result(time.Now()))
			}
		},
	}

	cmd.Flags().StringVar(&deckID, "deck", "", "Deck to quiz on")
	cmd.Flags().StringVar(&category, "category", "", "Only ask questions from this category (default all)")
	cmd.Flags().IntVar(&count, "count", 10, "Number of questions (0 for the whole deck)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Shuffle seed (default random)")
	cmd.Flags().DurationVar(&timeLimit, "time-limit", 0, "Time limit, e.g. 5m (default untimed)")
	return cmd
}

// runQuiz asks questions until the quiz is finished, the time runs out or input ends
func runQuiz(out io.Writer, in *bufio.Scanner, state quiz.State) (quiz.State, error) {
	for !state.Finished() {
		now := time.Now()
		if state.Expired(now) {
			fmt.Fprintln(out, "\nTime's up!")
			break
		}

		q := state.Questions[state.Current]
		fmt.Fprintf(out, "\nQuestion %d/%d", state.Current+1, len(state.Questions))
		if state.TimeLimit > 0 {
			fmt.Fprintf(out, " (%s left)", state.Remaining(now).Round(time.Second))
		}
		fmt.Fprintf(out, "\n%s\n", q.Prompt)
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
		}
		fmt.Fprint(out, "> ")

		if !in.Scan() {
			break
		}
		input := strings.ToLower(strings.TrimSpace(in.Text()))
		switch input {
		case "q", "quit":
			return state, nil
		case "p", "prev":
			state = state.Prev()
			continue
		case "n", "next", "":
			state = state.Next()
			continue
		}

		choice, err := strconv.Atoi(input)
		if err != nil {
			fmt.Fprintln(out, "Enter an option number")
			continue
		}
		next, correct, err := state.Answer(choice-1, time.Now())
		if errors.Is(err, quiz.ErrTimeUp) {
			fmt.Fprintln(out, "\nTime's up!")
			break
		}
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		state = next
		if correct {
			fmt.Fprintln(out, "Correct!")
		} else {
			fmt.Fprintf(out, "Incorrect. The answer is: %s\n", q.Options[q.CorrectIndex])
		}
		state = state.Next()
	}
	if err := in.Err(); err != nil {
		return state, fmt.Errorf("failed to read input: %w", err)
	}
	return state, nil
}

func printQuizResult(out io.Writer, r quiz.Result) {
	fmt.Fprintf(out, "\n%s\nScore: %d/%d (%d%%), %d incorrect, avg %ds per question, time %s\n",
		r.Verdict, r.Correct, r.Total, r.Percent, r.Incorrect, r.AvgSeconds, session.FormatElapsed(r.Elapsed))

	if len(r.ByCategory) < 2 {
		return
	}
	categories := make([]string, 0, len(r.ByCategory))
	for c := range r.ByCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		cs := r.ByCategory[c]
		rows = append(rows, []string{c, fmt.Sprintf("%d/%d", cs.Correct, cs.Total)})
	}
	fmt.Fprintln(out, renderTable([]string{"Category", "Correct"}, rows, []columnAlignment{alignLeft, alignRight}))
}
