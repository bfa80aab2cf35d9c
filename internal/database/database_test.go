package database

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/medlearn/internal/config"
	"github.com/example/medlearn/internal/playlist"
	"github.com/example/medlearn/internal/progress"
	"github.com/example/medlearn/pkg/models"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Connect(config.Database{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "medlearn.db"),
	})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedDeck(t *testing.T, db *sqlx.DB, id string, questions ...string) {
	t.Helper()
	ctx := context.Background()
	if _, err := NewDeckRepository(db).Upsert(ctx, &models.Deck{ID: id, Name: id}); err != nil {
		t.Fatalf("Upsert deck: %v", err)
	}
	cards := NewCardRepository(db)
	for _, q := range questions {
		if err := cards.Create(ctx, &models.Card{DeckID: id, Question: q, Answer: "answer to " + q}); err != nil {
			t.Fatalf("Create card: %v", err)
		}
	}
}

func TestConnect_RejectsUnknownDriver(t *testing.T) {
	if _, err := Connect(config.Database{Driver: "oracle"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestConnect_SchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "medlearn.db")
	for i := 0; i < 2; i++ {
		db, err := Connect(config.Database{Driver: config.DriverSQLite, DSN: path})
		if err != nil {
			t.Fatalf("Connect #%d: %v", i+1, err)
		}
		db.Close()
	}
}

func TestProgressRepository_GetAbsent(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))
	state, err := repo.Get(context.Background(), "neurology", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != nil {
		t.Fatalf("expected nil state, got %+v", state)
	}
}

func TestProgressRepository_PutOverwrites(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))
	ctx := context.Background()

	first := models.ReviewState{Interval: 1, EaseFactor: 2.36, Reviews: 1, LastReview: 1761000000000}
	second := models.ReviewState{Interval: 6, EaseFactor: 2.2199999999999998, Reviews: 2, LastReview: 1761000005000}

	if err := repo.Put(ctx, "neurology", 4, first); err != nil {
		t.Fatalf("put first: %v", err)
	}
	if err := repo.Put(ctx, "neurology", 4, second); err != nil {
		t.Fatalf("put second: %v", err)
	}

	got, err := repo.Get(ctx, "neurology", 4)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || *got != second {
		t.Fatalf("got %+v, want %+v", got, second)
	}
}

func TestProgressRepository_DeckAndAll(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))
	ctx := context.Background()

	snap := progress.Snapshot{}
	snap.Set("neurology", 1, models.ReviewState{Interval: 7, EaseFactor: 2.5, Reviews: 3})
	snap.Set("neurology", 2, models.ReviewState{Interval: 0, EaseFactor: 1.3, Reviews: 4})
	snap.Set("cardiology", 1, models.ReviewState{Interval: 1, EaseFactor: 2.36, Reviews: 1})

	n, err := repo.Import(ctx, snap)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 3 {
		t.Fatalf("imported %d, want 3", n)
	}

	deck, err := repo.Deck(ctx, "neurology")
	if err != nil {
		t.Fatalf("deck: %v", err)
	}
	if len(deck) != 2 || deck[2] != snap["neurology"][2] {
		t.Fatalf("neurology deck = %+v", deck)
	}

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if all.Cards() != 3 {
		t.Fatalf("all has %d cards, want 3", all.Cards())
	}
	if s := all.Lookup("cardiology", 1); s == nil || *s != snap["cardiology"][1] {
		t.Fatalf("cardiology/1 = %+v", s)
	}
}

func TestDeckRepository_Upsert(t *testing.T) {
	repo := NewDeckRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Upsert(ctx, &models.Deck{ID: "neurology", Name: "Neuro"})
	if err != nil || !created {
		t.Fatalf("first upsert = %v, %v; want created", created, err)
	}
	created, err = repo.Upsert(ctx, &models.Deck{ID: "neurology", Name: "Neurology", Icon: "brain"})
	if err != nil || created {
		t.Fatalf("second upsert = %v, %v; want update", created, err)
	}

	deck, err := repo.GetByID(ctx, "neurology")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if deck == nil || deck.Name != "Neurology" || deck.Icon != "brain" {
		t.Fatalf("deck = %+v", deck)
	}

	missing, err := repo.GetByID(ctx, "dermatology")
	if err != nil || missing != nil {
		t.Fatalf("missing deck = %+v, %v", missing, err)
	}
}

func TestCardRepository_AllocatesIDsPerDeck(t *testing.T) {
	db := newTestDB(t)
	seedDeck(t, db, "neurology", "q1", "q2")
	seedDeck(t, db, "cardiology", "q1")

	repo := NewCardRepository(db)
	ctx := context.Background()

	neuro, err := repo.GetByDeck(ctx, "neurology")
	if err != nil {
		t.Fatalf("GetByDeck: %v", err)
	}
	if len(neuro) != 2 || neuro[0].ID != 1 || neuro[1].ID != 2 {
		t.Fatalf("neurology cards = %+v", neuro)
	}

	cardio, _ := repo.GetByDeck(ctx, "cardiology")
	if len(cardio) != 1 || cardio[0].ID != 1 {
		t.Fatalf("cardiology cards = %+v", cardio)
	}

	counts, err := repo.CountByDeck(ctx)
	if err != nil {
		t.Fatalf("CountByDeck: %v", err)
	}
	if counts["neurology"] != 2 || counts["cardiology"] != 1 {
		t.Fatalf("counts = %v", counts)
	}

	found, err := repo.FindByQuestion(ctx, "neurology", "q2")
	if err != nil || found == nil || found.ID != 2 {
		t.Fatalf("FindByQuestion = %+v, %v", found, err)
	}
	found.Answer = "updated"
	if err := repo.Update(ctx, found); err != nil {
		t.Fatalf("Update: %v", err)
	}
	neuro, _ = repo.GetByDeck(ctx, "neurology")
	if neuro[1].Answer != "updated" {
		t.Fatalf("answer = %q, want updated", neuro[1].Answer)
	}
}

func TestReviewLogAndStatistics(t *testing.T) {
	db := newTestDB(t)
	logs := NewReviewLogRepository(db)
	quizzes := NewQuizResultRepository(db)
	stats := NewStatisticsRepository(db)
	ctx := context.Background()

	for i, rating := range []int{3, 3, 1, 4} {
		entry := &models.ReviewLog{SessionID: "s1", DeckID: "neurology", CardID: i + 1, Rating: rating, EaseFactor: 2.5}
		if err := logs.Create(ctx, entry); err != nil {
			t.Fatalf("Create log: %v", err)
		}
		if entry.ID == 0 {
			t.Fatal("expected log id to be set")
		}
	}

	entries, err := logs.GetBySession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetBySession: %v", err)
	}
	if len(entries) != 4 || entries[2].Rating != 1 {
		t.Fatalf("entries = %+v", entries)
	}

	for _, percent := range []int{60, 100} {
		r := &models.QuizResult{SessionID: "q", DeckID: "neurology", Total: 5, Correct: percent / 20, Percent: percent, TakenAt: time.Now()}
		if err := quizzes.Create(ctx, r); err != nil {
			t.Fatalf("Create quiz result: %v", err)
		}
	}

	activity, err := stats.DeckActivity(ctx, "neurology")
	if err != nil {
		t.Fatalf("DeckActivity: %v", err)
	}
	if activity.TotalReviews != 4 || activity.Ratings[3] != 2 || activity.Ratings[1] != 1 {
		t.Fatalf("ratings = %+v", activity)
	}
	if activity.Quizzes != 2 || activity.AvgPercent != 80 || activity.BestPercent != 100 {
		t.Fatalf("quiz aggregates = %+v", activity)
	}

	results, err := quizzes.GetByDeck(ctx, "neurology")
	if err != nil || len(results) != 2 {
		t.Fatalf("GetByDeck = %+v, %v", results, err)
	}
}

func TestQuizResultRepository_KeepsRecentHistory(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuizResultRepository(db)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	if err := repo.Create(ctx, &models.QuizResult{SessionID: "other", DeckID: "cardiology", Total: 1, TakenAt: start}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i := 0; i < QuizHistoryLimit+3; i++ {
		r := &models.QuizResult{SessionID: "q", DeckID: "neurology", Total: 10, Correct: i % 10, Percent: i, TakenAt: start.Add(time.Duration(i) * time.Minute)}
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
	}

	results, err := repo.GetByDeck(ctx, "neurology")
	if err != nil {
		t.Fatalf("GetByDeck: %v", err)
	}
	if len(results) != QuizHistoryLimit {
		t.Fatalf("kept %d results, want %d", len(results), QuizHistoryLimit)
	}
	if results[0].Percent != QuizHistoryLimit+2 || results[len(results)-1].Percent != 3 {
		t.Fatalf("kept percents %d..%d, want the newest", results[0].Percent, results[len(results)-1].Percent)
	}

	other, err := repo.GetByDeck(ctx, "cardiology")
	if err != nil || len(other) != 1 {
		t.Fatalf("other deck history = %+v, %v", other, err)
	}
}

func TestLessonRepositories(t *testing.T) {
	db := newTestDB(t)
	lessons := NewLessonRepository(db)
	progressRepo := NewLessonProgressRepository(db)
	ctx := context.Background()

	for _, title := range []string{"Clinical Reasoning Dementia", "Stroke Assessment"} {
		if err := lessons.Create(ctx, &models.Lesson{CourseID: "neurology", Title: title}); err != nil {
			t.Fatalf("Create lesson: %v", err)
		}
	}
	if err := lessons.Create(ctx, &models.Lesson{CourseID: "cardiology", Title: "ECG Basics"}); err != nil {
		t.Fatalf("Create lesson: %v", err)
	}

	neuro, err := lessons.GetByCourse(ctx, "neurology")
	if err != nil {
		t.Fatalf("GetByCourse: %v", err)
	}
	if len(neuro) != 2 || neuro[0].ID != 1 || neuro[1].Title != "Stroke Assessment" {
		t.Fatalf("lessons = %+v", neuro)
	}
	courses, err := lessons.Courses(ctx)
	if err != nil || len(courses) != 2 || courses[1] != (CourseSummary{CourseID: "neurology", Lessons: 2}) {
		t.Fatalf("Courses = %+v, %v", courses, err)
	}

	if got, err := progressRepo.Get(ctx, "neurology"); err != nil || got != nil {
		t.Fatalf("Get before save = %+v, %v", got, err)
	}

	for _, want := range []playlist.Progress{
		{LastIndex: 1, Completed: map[int]bool{1: true, 2: false}},
		{LastIndex: 0, Completed: map[int]bool{1: true, 2: true}},
	} {
		if err := progressRepo.Put(ctx, "neurology", want); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := progressRepo.Get(ctx, "neurology")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.LastIndex != want.LastIndex || !reflect.DeepEqual(got.Completed, want.Completed) {
			t.Fatalf("Get = %+v, want %+v", got, want)
		}
	}
}
