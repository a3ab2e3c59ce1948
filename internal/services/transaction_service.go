// Package services provides business logic and orchestration on top of the
// parsers, calculators, and storage.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cjaradhye/money-minder/internal/core"
	"github.com/cjaradhye/money-minder/internal/entry"
)

// TransactionStore is the storage surface the transaction service needs.
type TransactionStore interface {
	ListCategories(ctx context.Context) ([]core.Category, error)
	ListTags(ctx context.Context) ([]core.Tag, error)
	EnsureTags(ctx context.Context, names []string) ([]string, error)
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
}

// EventPublisher publishes transaction-created events. Publishing is best
// effort: a broker outage never fails the write.
type EventPublisher interface {
	PublishTransactionCreated(ctx context.Context, id, monthYear string) error
}

// CacheInvalidator drops derived views for a month after a write.
type CacheInvalidator interface {
	InvalidateMonth(month core.MonthYear)
}

type TransactionService struct {
	store     TransactionStore
	publisher EventPublisher
	cache     CacheInvalidator
}

// NewTransactionService creates a transaction service. Publisher and cache
// may be nil when the deployment runs without a broker or cache.
func NewTransactionService(store TransactionStore, publisher EventPublisher, cache CacheInvalidator) *TransactionService {
	return &TransactionService{
		store:     store,
		publisher: publisher,
		cache:     cache,
	}
}

// Preview parses shorthand against the stored categories and tags without
// persisting anything. The ParseError result is a user-facing rejection, not
// a failure.
func (s *TransactionService) Preview(ctx context.Context, input string) (*core.TransactionDraft, *entry.ParseError, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list categories: %w", err)
	}
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list tags: %w", err)
	}

	draft, parseErr := entry.ParseEntry(input, categories, tags)
	return draft, parseErr, nil
}

// CreateFromInput parses shorthand and persists the resulting draft.
func (s *TransactionService) CreateFromInput(ctx context.Context, input string) (core.Transaction, *entry.ParseError, error) {
	draft, parseErr, err := s.Preview(ctx, input)
	if err != nil || parseErr != nil {
		return core.Transaction{}, parseErr, err
	}
	tx, err := s.Create(ctx, *draft)
	return tx, nil, err
}

// Create persists a draft. Tags referenced by name are created on the fly so
// a typed #newtag survives the save; the preview never creates them.
func (s *TransactionService) Create(ctx context.Context, draft core.TransactionDraft) (core.Transaction, error) {
	if err := draft.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate draft: %w", err)
	}

	tagIDs := draft.TagIDs
	if len(draft.TagNames) > 0 {
		ids, err := s.store.EnsureTags(ctx, draft.TagNames)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("ensure tags: %w", err)
		}
		tagIDs = ids
	}

	tx, err := s.store.CreateTransaction(ctx, core.Transaction{
		Type:        draft.Type,
		Amount:      draft.Amount,
		Description: draft.Description,
		Date:        draft.Date,
		CategoryID:  draft.CategoryID,
		TagIDs:      tagIDs,
		Notes:       draft.Notes,
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	month := tx.Date.Month()
	if s.cache != nil {
		s.cache.InvalidateMonth(month)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishTransactionCreated(ctx, tx.ID, string(month)); err != nil {
			slog.WarnContext(ctx, "Failed to publish transaction created event",
				"id", tx.ID,
				"error", err)
		}
	}

	return tx, nil
}
