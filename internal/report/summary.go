package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cjaradhye/money-minder/internal/core"
)

// UncategorizedLabel is the bucket expenses fall into when their category is
// missing or no longer resolvable.
const UncategorizedLabel = "Other"

// Summarize aggregates one month of transactions into a summary: income and
// expense totals, net balance, and the expense categories ranked by spend.
// Category grouping is by display name; transactions without a resolvable
// category roll into the "Other" bucket.
func Summarize(txns []core.Transaction, categories []core.Category) core.MonthlySummary {
	nameByID := make(map[string]string, len(categories))
	for _, c := range categories {
		nameByID[c.ID] = c.Name
	}

	var totalIncome, totalExpenses int64
	spendByName := make(map[string]int64)

	for _, tx := range txns {
		if tx.Type == core.Income {
			totalIncome += tx.Amount.Cents
			continue
		}
		totalExpenses += tx.Amount.Cents
		name := nameByID[tx.CategoryID]
		if name == "" {
			name = UncategorizedLabel
		}
		spendByName[name] += tx.Amount.Cents
	}

	top := make([]core.CategorySpend, 0, len(spendByName))
	for name, cents := range spendByName {
		top = append(top, core.CategorySpend{
			Category:   name,
			Amount:     core.Money{Cents: cents},
			Percentage: share(cents, totalExpenses),
		})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Amount.Cents != top[j].Amount.Cents {
			return top[i].Amount.Cents > top[j].Amount.Cents
		}
		return strings.ToLower(top[i].Category) < strings.ToLower(top[j].Category)
	})
	if len(top) > TopCategoryCount {
		top = top[:TopCategoryCount]
	}

	return core.MonthlySummary{
		TotalIncome:      core.Money{Cents: totalIncome},
		TotalExpenses:    core.Money{Cents: totalExpenses},
		NetBalance:       core.Money{Cents: totalIncome - totalExpenses},
		TopCategories:    top,
		TransactionCount: len(txns),
	}
}

// share is amount/total as a percentage rounded to one decimal, 0 when there
// are no expenses at all.
func share(cents, totalCents int64) float64 {
	if totalCents <= 0 {
		return 0
	}
	pct, _ := decimal.NewFromInt(cents).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(totalCents), 1).
		Float64()
	return pct
}
