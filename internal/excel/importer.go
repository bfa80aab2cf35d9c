package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/medlearn/pkg/models"
)

// DeckStore is the part of the deck repository the importer needs
type DeckStore interface {
	Upsert(ctx context.Context, deck *models.Deck) (bool, error)
}

// CardStore is the part of the card repository the importer needs
type CardStore interface {
	FindByQuestion(ctx context.Context, deckID, question string) (*models.Card, error)
	Create(ctx context.Context, card *models.Card) error
	Update(ctx context.Context, card *models.Card) error
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath       string // Path to the Excel or CSV file
	SheetName      string // Name of the sheet to import, first sheet when empty
	DeckColumn     string // Column with the deck name
	QuestionColumn string // Column with the question
	AnswerColumn   string // Column with the answer
	CategoryColumn string // Column with the category, optional
	IconColumn     string // Column with the deck icon, optional
	StartRow       int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		DeckColumn:     "A",
		QuestionColumn: "B",
		AnswerColumn:   "C",
		CategoryColumn: "D",
		IconColumn:     "E",
		StartRow:       2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	DecksCreated   int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

type columns struct {
	deck, question, answer, category, icon int
}

// Importer loads flashcards from spreadsheets into the deck and card stores
type Importer struct {
	decks DeckStore
	cards CardStore
}

// NewImporter creates an importer
func NewImporter(decks DeckStore, cards CardStore) *Importer {
	return &Importer{decks: decks, cards: cards}
}

// Import imports cards from an Excel or CSV file
func (im *Importer) Import(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	cols, err := resolveColumns(config)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	seenDecks := make(map[string]bool)

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		if isBlank(row) {
			continue
		}

		result.TotalProcessed++
		if err := im.processRow(ctx, row, cols, seenDecks, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

func resolveColumns(config ImportConfig) (columns, error) {
	index := func(name string, required bool) (int, error) {
		if name == "" {
			if required {
				return 0, errors.New("required column not configured")
			}
			return -1, nil
		}
		n, err := excelize.ColumnNameToNumber(name)
		if err != nil {
			return 0, fmt.Errorf("invalid column %q: %w", name, err)
		}
		return n - 1, nil
	}

	var (
		c   columns
		err error
	)
	if c.deck, err = index(config.DeckColumn, true); err != nil {
		return c, err
	}
	if c.question, err = index(config.QuestionColumn, true); err != nil {
		return c, err
	}
	if c.answer, err = index(config.AnswerColumn, true); err != nil {
		return c, err
	}
	if c.category, err = index(config.CategoryColumn, false); err != nil {
		return c, err
	}
	if c.icon, err = index(config.IconColumn, false); err != nil {
		return c, err
	}
	return c, nil
}

// readExcel returns every row of the sheet
func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// readCSV returns every record of the file
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// processRow creates or updates the card described by one row
func (im *Importer) processRow(ctx context.Context, row []string, cols columns, seenDecks map[string]bool, result *ImportResult) error {
	deckName := cell(row, cols.deck)
	question := cell(row, cols.question)
	answer := cell(row, cols.answer)
	category := cell(row, cols.category)

	if deckName == "" {
		result.Skipped++
		return errors.New("deck cannot be empty")
	}
	if question == "" || answer == "" {
		result.Skipped++
		return errors.New("question and answer are required")
	}

	deckID := Slug(deckName)
	if !seenDecks[deckID] {
		deck := &models.Deck{ID: deckID, Name: deckName, Icon: cell(row, cols.icon)}
		created, err := im.decks.Upsert(ctx, deck)
		if err != nil {
			return fmt.Errorf("failed to save deck: %w", err)
		}
		if created {
			result.DecksCreated++
		}
		seenDecks[deckID] = true
	}

	existing, err := im.cards.FindByQuestion(ctx, deckID, question)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.Answer = answer
		existing.Category = category
		if err := im.cards.Update(ctx, existing); err != nil {
			return err
		}
		result.Updated++
		return nil
	}

	card := &models.Card{DeckID: deckID, Question: question, Answer: answer, Category: category}
	if err := im.cards.Create(ctx, card); err != nil {
		return err
	}
	result.Created++
	return nil
}

// Slug turns a deck name into its id: "Internal Medicine" -> "internal-medicine"
func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
