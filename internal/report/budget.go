// Package report derives read-only view models from persisted transactions:
// budget status, goal pacing, monthly summaries and the insight lines built
// on top of them. Everything here is a pure function over its inputs.
package report

import (
	"github.com/cjaradhye/money-minder/internal/core"
)

// Policy constants. These are product-tuned cutoffs, not computed values;
// tests assert on them directly.
const (
	// AtRiskPercent flags a budget once spend reaches this share of the limit.
	AtRiskPercent = 90

	// PaceDaysPerMonth flattens goal pacing to 30-day months.
	PaceDaysPerMonth = 30

	// TopCategoryCount caps the ranked category list in a monthly summary.
	TopCategoryCount = 5

	// HighActivityCount is the transaction count past which the consolidation
	// insight fires.
	HighActivityCount = 30

	// HealthySavingsPercent is the savings rate treated as on-track.
	HealthySavingsPercent = 20
)

// BudgetStatuses computes spend-vs-limit for each budget from the month's
// transactions. Only EXPENSE transactions count; percentage is clamped to 100
// while Remaining goes negative to signal the overshoot.
func BudgetStatuses(budgets []core.Budget, txns []core.Transaction) []core.BudgetStatus {
	spentByCategory := make(map[string]int64)
	for _, tx := range txns {
		if tx.Type != core.Expense || tx.CategoryID == "" {
			continue
		}
		spentByCategory[tx.CategoryID] += tx.Amount.Cents
	}

	statuses := make([]core.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		var spent int64
		if b.CategoryID != "" {
			spent = spentByCategory[b.CategoryID]
		}
		limit := b.MonthlyLimit.Cents

		status := core.BudgetOK
		switch {
		// Overspent means strictly past the limit; landing exactly on it is
		// still at-risk.
		case spent > limit:
			status = core.BudgetOverspent
		case limit > 0 && spent*100 >= limit*AtRiskPercent:
			status = core.BudgetAtRisk
		}

		percentage := 0.0
		if limit > 0 {
			percentage = float64(spent) / float64(limit) * 100
			if percentage > 100 {
				percentage = 100
			}
		}

		statuses = append(statuses, core.BudgetStatus{
			Budget:     b,
			Spent:      core.Money{Cents: spent},
			Remaining:  core.Money{Cents: limit - spent},
			Percentage: percentage,
			Status:     status,
		})
	}
	return statuses
}
