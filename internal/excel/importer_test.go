package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/example/medlearn/pkg/models"
)

type memoryDecks struct {
	decks map[string]models.Deck
}

func (m *memoryDecks) Upsert(_ context.Context, deck *models.Deck) (bool, error) {
	_, exists := m.decks[deck.ID]
	m.decks[deck.ID] = *deck
	return !exists, nil
}

type memoryCards struct {
	cards []models.Card
}

func (m *memoryCards) FindByQuestion(_ context.Context, deckID, question string) (*models.Card, error) {
	for i := range m.cards {
		if m.cards[i].DeckID == deckID && m.cards[i].Question == question {
			c := m.cards[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memoryCards) Create(_ context.Context, card *models.Card) error {
	card.ID = len(m.cards) + 1
	m.cards = append(m.cards, *card)
	return nil
}

func (m *memoryCards) Update(_ context.Context, card *models.Card) error {
	for i := range m.cards {
		if m.cards[i].DeckID == card.DeckID && m.cards[i].ID == card.ID {
			m.cards[i] = *card
		}
	}
	return nil
}

func newTestImporter() (*Importer, *memoryDecks, *memoryCards) {
	decks := &memoryDecks{decks: map[string]models.Deck{}}
	cards := &memoryCards{}
	return NewImporter(decks, cards), decks, cards
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cellName, &row); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(t.TempDir(), "decks.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func TestImportExcel(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Deck", "Question", "Answer", "Category", "Icon"},
		{"Neurology", "Most common dementia?", "Alzheimer's disease", "Dementia", "brain"},
		{"Neurology", "Cardinal features of Parkinson's?", "TRAP", "Movement Disorders"},
		{"Internal Medicine", "STEMI criteria?", "ST elevation", "ACS"},
		{"", "orphan question", "orphan answer"},
		{"Neurology", "Most common dementia?", "Alzheimer's disease (60-80%)", "Dementia"},
	})

	im, decks, cards := newTestImporter()
	cfg := DefaultImportConfig()
	cfg.FilePath = path

	result, err := im.Import(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.TotalProcessed != 5 || result.Created != 3 || result.Updated != 1 || result.Skipped != 1 {
		t.Fatalf("result = %+v", result)
	}
	if result.DecksCreated != 2 || len(result.Errors) != 1 {
		t.Fatalf("result = %+v", result)
	}

	if d, ok := decks.decks["internal-medicine"]; !ok || d.Name != "Internal Medicine" {
		t.Fatalf("decks = %+v", decks.decks)
	}
	if decks.decks["neurology"].Icon != "brain" {
		t.Fatalf("neurology icon = %q", decks.decks["neurology"].Icon)
	}
	if cards.cards[0].Answer != "Alzheimer's disease (60-80%)" {
		t.Fatalf("card not updated: %+v", cards.cards[0])
	}
}

func TestImportCSV(t *testing.T) {
	content := "deck,question,answer,category\n" +
		"Pharmacology,ACE inhibitor side effects?,\"Cough, angioedema\",Cardiovascular\n" +
		",,,\n" +
		"Pharmacology,Beta blocker mechanism?,Block beta receptors,Cardiovascular\n"
	path := filepath.Join(t.TempDir(), "decks.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	im, _, cards := newTestImporter()
	cfg := DefaultImportConfig()
	cfg.FilePath = path

	result, err := im.Import(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Created != 2 || len(result.Errors) != 0 {
		t.Fatalf("result = %+v", result)
	}
	if cards.cards[0].Answer != "Cough, angioedema" || cards.cards[0].DeckID != "pharmacology" {
		t.Fatalf("card = %+v", cards.cards[0])
	}
}

func TestImportRejectsBadColumn(t *testing.T) {
	im, _, _ := newTestImporter()
	cfg := DefaultImportConfig()
	cfg.QuestionColumn = "1"
	cfg.FilePath = "unused.xlsx"
	if _, err := im.Import(context.Background(), cfg); err == nil {
		t.Fatal("expected error for invalid column name")
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Neurology":           "neurology",
		"Internal  Medicine ": "internal-medicine",
		"ICU":                 "icu",
	}
	for in, want := range tests {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}
