package report

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cjaradhye/money-minder/internal/core"
)

// Insights renders the monthly narrative lines for a summary. The rules are
// deterministic and evaluated in a fixed order; every matching rule emits,
// so an identical summary always yields an identical ordered list. There is
// no model behind this, just arithmetic over the aggregates.
func Insights(s core.MonthlySummary) []string {
	var insights []string

	switch {
	case s.NetBalance.Cents > 0:
		insights = append(insights, fmt.Sprintf(
			"Great job! You saved %s this month. Consider allocating some to your goals.",
			FormatINR(s.NetBalance)))
	case s.NetBalance.Cents < 0:
		insights = append(insights, fmt.Sprintf(
			"You spent %s more than you earned this month. Review your spending in top categories.",
			FormatINR(core.Money{Cents: -s.NetBalance.Cents})))
	}

	if len(s.TopCategories) > 0 {
		top := s.TopCategories[0]
		insights = append(insights, fmt.Sprintf(
			"Your highest spending category is %s at %s (%s%% of expenses).",
			top.Category, FormatINR(top.Amount), trimFloat(top.Percentage)))
	}

	if s.TransactionCount > HighActivityCount {
		insights = append(insights, fmt.Sprintf(
			"You made %d transactions this month. Consider batching small purchases to reduce impulse spending.",
			s.TransactionCount))
	}

	if s.TotalIncome.Cents > 0 {
		rate := savingsRate(s)
		healthy := decimal.NewFromInt(HealthySavingsPercent)
		switch {
		case rate.GreaterThanOrEqual(healthy):
			insights = append(insights, fmt.Sprintf(
				"Excellent! Your savings rate is %s%%. You're on track for financial health.",
				rate.StringFixed(1)))
		case rate.IsPositive():
			insights = append(insights, fmt.Sprintf(
				"Your savings rate is %s%%. Aim for at least %d%% for long-term financial security.",
				rate.StringFixed(1), HealthySavingsPercent))
		}
	}

	return insights
}

// savingsRate is (income-expenses)/income*100 at full precision; display
// rounding happens at format time.
func savingsRate(s core.MonthlySummary) decimal.Decimal {
	return decimal.NewFromInt(s.TotalIncome.Cents - s.TotalExpenses.Cents).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(s.TotalIncome.Cents))
}

// trimFloat renders a one-decimal percentage without a trailing ".0".
func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
