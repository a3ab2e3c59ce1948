package report

import (
	"testing"

	"github.com/cjaradhye/money-minder/internal/core"
)

func budget(categoryID string, limitCents int64) core.Budget {
	return core.Budget{
		ID:           "b-" + categoryID,
		CategoryID:   categoryID,
		MonthlyLimit: core.Money{Cents: limitCents},
		MonthYear:    "2026-02",
	}
}

func expense(categoryID string, cents int64) core.Transaction {
	return core.Transaction{
		Type:       core.Expense,
		Amount:     core.Money{Cents: cents},
		CategoryID: categoryID,
		Date:       "2026-02-05",
	}
}

func TestBudgetStatusThresholds(t *testing.T) {
	cases := []struct {
		name  string
		spent int64
		limit int64
		want  core.BudgetState
	}{
		{"well under", 5000, 10000, core.BudgetOK},
		{"just under at-risk", 8999, 10000, core.BudgetOK},
		{"at 90 percent", 9000, 10000, core.BudgetAtRisk},
		{"exactly on limit", 10000, 10000, core.BudgetAtRisk},
		{"one over", 10001, 10000, core.BudgetOverspent},
		{"zero spend", 0, 10000, core.BudgetOK},
	}
	for _, tc := range cases {
		statuses := BudgetStatuses(
			[]core.Budget{budget("c1", tc.limit)},
			[]core.Transaction{expense("c1", tc.spent)},
		)
		if len(statuses) != 1 {
			t.Fatalf("%s: expected 1 status, got %d", tc.name, len(statuses))
		}
		if statuses[0].Status != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, statuses[0].Status)
		}
	}
}

func TestBudgetStatusPercentageClamped(t *testing.T) {
	statuses := BudgetStatuses(
		[]core.Budget{budget("c1", 10000)},
		[]core.Transaction{expense("c1", 25000)},
	)
	st := statuses[0]
	if st.Percentage != 100 {
		t.Fatalf("percentage expected clamp to 100, got %v", st.Percentage)
	}
	if st.Remaining.Cents != -15000 {
		t.Fatalf("remaining expected -15000, got %d", st.Remaining.Cents)
	}
	if st.Status != core.BudgetOverspent {
		t.Fatalf("expected OVERSPENT, got %s", st.Status)
	}
}

func TestBudgetStatusIgnoresIncome(t *testing.T) {
	income := core.Transaction{
		Type:       core.Income,
		Amount:     core.Money{Cents: 99999},
		CategoryID: "c1",
		Date:       "2026-02-05",
	}
	statuses := BudgetStatuses(
		[]core.Budget{budget("c1", 10000)},
		[]core.Transaction{income, expense("c1", 3000)},
	)
	if statuses[0].Spent.Cents != 3000 {
		t.Fatalf("income must not count as spend, got %d", statuses[0].Spent.Cents)
	}
}

func TestBudgetStatusSpendAggregates(t *testing.T) {
	statuses := BudgetStatuses(
		[]core.Budget{budget("c1", 10000)},
		[]core.Transaction{
			expense("c1", 4000),
			expense("c1", 4000),
			expense("c2", 5000), // other category
			expense("", 5000),   // uncategorized
		},
	)
	if statuses[0].Spent.Cents != 8000 {
		t.Fatalf("expected 8000 cents spent, got %d", statuses[0].Spent.Cents)
	}
}

func TestBudgetStatusNoTransactions(t *testing.T) {
	statuses := BudgetStatuses([]core.Budget{budget("c1", 10000)}, nil)
	st := statuses[0]
	if st.Spent.Cents != 0 || st.Remaining.Cents != 10000 || st.Status != core.BudgetOK || st.Percentage != 0 {
		t.Fatalf("unexpected empty-month status: %+v", st)
	}
}
