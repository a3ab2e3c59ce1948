package core

// Derived read models. These are recomputed on every query and never
// persisted; overspending shows up in Status and Remaining, never in an
// uncapped percentage.

const (
	BudgetOK        BudgetState = "OK"
	BudgetAtRisk    BudgetState = "AT_RISK"
	BudgetOverspent BudgetState = "OVERSPENT"
)

type (
	BudgetState string

	// BudgetStatus is the spend-vs-limit position of one budget for its month.
	// Percentage is clamped to [0,100].
	BudgetStatus struct {
		Budget     Budget
		Spent      Money
		Remaining  Money // negative when overspent
		Percentage float64
		Status     BudgetState
	}

	// GoalProgress is the pacing view of a savings goal. DaysRemaining and
	// RequiredMonthlyPace are nil for open-ended goals.
	GoalProgress struct {
		Goal                Goal
		Percentage          float64
		DaysRemaining       *int
		RequiredMonthlyPace *Money
	}

	// CategorySpend is one ranked row of a monthly summary.
	CategorySpend struct {
		Category   string
		Amount     Money
		Percentage float64 // share of total expenses, one decimal
	}

	MonthlySummary struct {
		TotalIncome      Money
		TotalExpenses    Money
		NetBalance       Money // income - expenses, may be negative
		TopCategories    []CategorySpend
		TransactionCount int
	}
)
