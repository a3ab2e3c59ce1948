package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cjaradhye/money-minder/internal/core"
)

// ScheduleAdvancer is the strategy interface for moving a recurring template's
// next run date forward one period.
type ScheduleAdvancer interface {
	Next(from core.Date) core.Date
}

type dailyAdvancer struct{}

func (dailyAdvancer) Next(from core.Date) core.Date { return from.AddDays(1) }

type weeklyAdvancer struct{}

func (weeklyAdvancer) Next(from core.Date) core.Date { return from.AddDays(7) }

type monthlyAdvancer struct{}

// Next clamps to the target month's last day, so a template anchored on the
// 31st fires on Feb 28.
func (monthlyAdvancer) Next(from core.Date) core.Date { return from.AddMonths(1) }

// scheduleStrategies maps frequencies to their advancers.
var scheduleStrategies = map[core.Frequency]ScheduleAdvancer{
	core.FrequencyDaily:   dailyAdvancer{},
	core.FrequencyWeekly:  weeklyAdvancer{},
	core.FrequencyMonthly: monthlyAdvancer{},
}

// GetScheduleAdvancer returns the advancer for a frequency.
func GetScheduleAdvancer(frequency core.Frequency) (ScheduleAdvancer, error) {
	adv, ok := scheduleStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %s", frequency)
	}
	return adv, nil
}

// RecurringStore is the storage surface the processor needs.
type RecurringStore interface {
	ListDueRecurring(ctx context.Context, asOf core.Date) ([]core.RecurringTransaction, error)
	UpdateRecurringNextRun(ctx context.Context, id string, next core.Date) error
}

// RecurringProcessor materializes due recurring templates into transactions.
type RecurringProcessor struct {
	store        RecurringStore
	transactions *TransactionService
}

func NewRecurringProcessor(store RecurringStore, transactions *TransactionService) *RecurringProcessor {
	return &RecurringProcessor{
		store:        store,
		transactions: transactions,
	}
}

// ProcessDue creates one transaction per due occurrence, catching up missed
// periods: a weekly template three weeks behind produces three transactions,
// each dated at its own scheduled run date. Returns the number created.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, today core.Date) (int, error) {
	if p.store == nil || p.transactions == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	due, err := p.store.ListDueRecurring(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("list due recurring transactions: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring transactions",
		"due", len(due),
		"processing_date", today)

	created := 0
	for _, rec := range due {
		advancer, err := GetScheduleAdvancer(rec.Frequency)
		if err != nil {
			slog.ErrorContext(ctx, "Skipping recurring template",
				"id", rec.ID,
				"error", err)
			continue
		}

		next := rec.NextRunDate
		for next <= today {
			_, err := p.transactions.Create(ctx, core.TransactionDraft{
				Type:        rec.Type,
				Amount:      rec.Amount,
				Description: rec.Description,
				Date:        next,
				CategoryID:  rec.CategoryID,
			})
			if err != nil {
				slog.ErrorContext(ctx, "Failed to create transaction from recurring template",
					"recurring_id", rec.ID,
					"description", rec.Description,
					"error", err)
				break
			}
			created++
			next = advancer.Next(next)
		}

		if next != rec.NextRunDate {
			if err := p.store.UpdateRecurringNextRun(ctx, rec.ID, next); err != nil {
				slog.ErrorContext(ctx, "Failed to advance recurring next run date",
					"recurring_id", rec.ID,
					"error", err)
			}
		}
	}

	slog.InfoContext(ctx, "Recurring transaction processing complete",
		"created", created,
		"templates_checked", len(due))
	return created, nil
}
