package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cjaradhye/money-minder/internal/csvio"
)

// ImportOutcome is the result of a bulk import: validation errors from the
// parse plus how many accepted rows actually landed.
type ImportOutcome struct {
	Imported int              `json:"imported"`
	Errors   []csvio.RowError `json:"errors"`
}

type ImportService struct {
	store        TransactionStore
	transactions *TransactionService
}

func NewImportService(store TransactionStore, transactions *TransactionService) *ImportService {
	return &ImportService{
		store:        store,
		transactions: transactions,
	}
}

// Import validates the whole file, then persists every accepted row. Rows
// that fail validation are reported with their line numbers and never block
// the valid ones; a partial import is a success with a non-empty error list.
func (s *ImportService) Import(ctx context.Context, csvText string) (ImportOutcome, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return ImportOutcome{}, fmt.Errorf("list categories: %w", err)
	}

	result := csvio.Parse(csvText, categories)
	outcome := ImportOutcome{Errors: result.Errors}
	if outcome.Errors == nil {
		outcome.Errors = []csvio.RowError{}
	}

	for _, draft := range result.Accepted {
		if _, err := s.transactions.Create(ctx, draft); err != nil {
			return outcome, fmt.Errorf("persist imported row: %w", err)
		}
		outcome.Imported++
	}

	slog.InfoContext(ctx, "CSV import finished",
		"imported", outcome.Imported,
		"rejected", len(outcome.Errors))
	return outcome, nil
}

// Sample returns the downloadable sample CSV.
func (s *ImportService) Sample() string {
	return csvio.GenerateSample()
}
