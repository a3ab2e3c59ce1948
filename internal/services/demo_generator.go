package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/cjaradhye/money-minder/internal/core"
)

// DemoStore is the storage surface demo seeding needs beyond transactions.
type DemoStore interface {
	TransactionStore
	UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
}

// DemoDataGenerator fills an empty database with plausible fake activity for
// local development and demos.
type DemoDataGenerator struct {
	store        DemoStore
	transactions *TransactionService
	faker        *gofakeit.Faker
}

// NewDemoDataGenerator seeds the faker so repeated runs with the same seed
// produce the same dataset.
func NewDemoDataGenerator(store DemoStore, transactions *TransactionService, seed uint64) *DemoDataGenerator {
	return &DemoDataGenerator{
		store:        store,
		transactions: transactions,
		faker:        gofakeit.New(seed),
	}
}

// Generate writes perMonth transactions for each of the trailing months
// ending at the current one, plus a budget per expense category for the
// current month and a couple of goals.
func (g *DemoDataGenerator) Generate(ctx context.Context, months, perMonth int) error {
	categories, err := g.store.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	if len(categories) == 0 {
		return fmt.Errorf("no categories to generate against; apply the seed first")
	}

	today := core.Today()
	total := 0
	for m := 0; m < months; m++ {
		first, last := today.AddMonths(-m).Month().Bounds()
		span := first.DaysUntil(last)
		for i := 0; i < perMonth; i++ {
			cat := categories[g.faker.Number(0, len(categories)-1)]
			draft := core.TransactionDraft{
				Type:        core.Expense,
				Description: g.faker.ProductName(),
				Amount:      core.Money{Cents: int64(g.faker.Number(500, 500000))},
				Date:        first.AddDays(g.faker.Number(0, span)),
				CategoryID:  cat.ID,
			}
			if g.faker.Number(1, 10) == 1 {
				draft.Type = core.Income
				draft.Description = g.faker.Company()
				draft.Amount = core.Money{Cents: int64(g.faker.Number(1000000, 10000000))}
			}
			if _, err := g.transactions.Create(ctx, draft); err != nil {
				return fmt.Errorf("create demo transaction: %w", err)
			}
			total++
		}
	}

	month := today.Month()
	for _, cat := range categories {
		if _, err := g.store.UpsertBudget(ctx, core.Budget{
			CategoryID:   cat.ID,
			MonthlyLimit: core.Money{Cents: int64(g.faker.Number(500000, 5000000))},
			MonthYear:    month,
		}); err != nil {
			return fmt.Errorf("create demo budget: %w", err)
		}
	}

	for i := 0; i < 2; i++ {
		target := int64(g.faker.Number(5000000, 50000000))
		if _, err := g.store.CreateGoal(ctx, core.Goal{
			Name:          g.faker.BuzzWord() + " fund",
			TargetAmount:  core.Money{Cents: target},
			CurrentAmount: core.Money{Cents: target / int64(g.faker.Number(2, 10))},
			TargetDate:    today.AddMonths(g.faker.Number(3, 18)),
		}); err != nil {
			return fmt.Errorf("create demo goal: %w", err)
		}
	}

	slog.InfoContext(ctx, "Demo data generated",
		"transactions", total,
		"budgets", len(categories),
		"goals", 2)
	return nil
}
