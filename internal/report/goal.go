package report

import (
	"github.com/shopspring/decimal"

	"github.com/cjaradhye/money-minder/internal/core"
)

// GoalProgress computes the pacing view for each goal as of today. Open-ended
// goals (no target date) carry nil DaysRemaining and nil pace; a reached or
// past target date yields zero days and no pace.
func GoalProgress(goals []core.Goal, today core.Date) []core.GoalProgress {
	progress := make([]core.GoalProgress, 0, len(goals))
	for _, g := range goals {
		p := core.GoalProgress{Goal: g}

		if g.TargetAmount.Cents > 0 {
			p.Percentage = float64(g.CurrentAmount.Cents) / float64(g.TargetAmount.Cents) * 100
			if p.Percentage > 100 {
				p.Percentage = 100
			}
		}

		if g.TargetDate != "" && g.TargetDate.Valid() {
			days := today.DaysUntil(g.TargetDate)
			if days < 0 {
				days = 0
			}
			p.DaysRemaining = &days

			remaining := g.TargetAmount.Cents - g.CurrentAmount.Cents
			if days > 0 && remaining > 0 {
				pace := requiredMonthlyPace(remaining, days)
				p.RequiredMonthlyPace = &pace
			}
		}

		progress = append(progress, p)
	}
	return progress
}

// requiredMonthlyPace is remaining/days scaled to a flat 30-day month. The
// 30-day approximation is deliberate and must not become calendar-accurate
// without product sign-off.
func requiredMonthlyPace(remainingCents int64, days int) core.Money {
	pace := decimal.NewFromInt(remainingCents).
		Mul(decimal.NewFromInt(PaceDaysPerMonth)).
		DivRound(decimal.NewFromInt(int64(days)), 0)
	return core.Money{Cents: pace.IntPart()}
}
