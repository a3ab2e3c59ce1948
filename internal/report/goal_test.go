package report

import (
	"testing"

	"github.com/cjaradhye/money-minder/internal/core"
)

func TestGoalProgressPercentage(t *testing.T) {
	goals := []core.Goal{
		{ID: "g1", Name: "Laptop", TargetAmount: core.Money{Cents: 100000}, CurrentAmount: core.Money{Cents: 25000}},
		{ID: "g2", Name: "Done", TargetAmount: core.Money{Cents: 100000}, CurrentAmount: core.Money{Cents: 150000}},
	}
	progress := GoalProgress(goals, "2026-02-10")

	if progress[0].Percentage != 25 {
		t.Fatalf("expected 25%%, got %v", progress[0].Percentage)
	}
	// Overfunded goals clamp at 100.
	if progress[1].Percentage != 100 {
		t.Fatalf("expected clamp to 100%%, got %v", progress[1].Percentage)
	}
}

func TestGoalProgressOpenEnded(t *testing.T) {
	goals := []core.Goal{{ID: "g1", Name: "Someday", TargetAmount: core.Money{Cents: 100000}}}
	p := GoalProgress(goals, "2026-02-10")[0]
	if p.DaysRemaining != nil {
		t.Fatalf("open-ended goal must have nil days remaining, got %d", *p.DaysRemaining)
	}
	if p.RequiredMonthlyPace != nil {
		t.Fatalf("open-ended goal must have nil pace, got %d", p.RequiredMonthlyPace.Cents)
	}
}

func TestGoalProgressPace(t *testing.T) {
	// 60000 cents remaining over 60 days at a flat 30-day month = 30000/month.
	goals := []core.Goal{{
		ID:            "g1",
		Name:          "Trip",
		TargetAmount:  core.Money{Cents: 100000},
		CurrentAmount: core.Money{Cents: 40000},
		TargetDate:    "2026-04-11",
	}}
	p := GoalProgress(goals, "2026-02-10")[0]

	if p.DaysRemaining == nil || *p.DaysRemaining != 60 {
		t.Fatalf("expected 60 days remaining, got %v", p.DaysRemaining)
	}
	if p.RequiredMonthlyPace == nil || p.RequiredMonthlyPace.Cents != 30000 {
		t.Fatalf("expected pace of 30000 cents, got %v", p.RequiredMonthlyPace)
	}
}

func TestGoalProgressPastTargetDate(t *testing.T) {
	goals := []core.Goal{{
		ID:            "g1",
		Name:          "Missed",
		TargetAmount:  core.Money{Cents: 100000},
		CurrentAmount: core.Money{Cents: 40000},
		TargetDate:    "2026-01-01",
	}}
	p := GoalProgress(goals, "2026-02-10")[0]

	// Days floor at zero and the pace disappears rather than going negative.
	if p.DaysRemaining == nil || *p.DaysRemaining != 0 {
		t.Fatalf("expected 0 days remaining, got %v", p.DaysRemaining)
	}
	if p.RequiredMonthlyPace != nil {
		t.Fatalf("expected nil pace past the date, got %d", p.RequiredMonthlyPace.Cents)
	}
}

func TestGoalProgressReachedGoalHasNoPace(t *testing.T) {
	goals := []core.Goal{{
		ID:            "g1",
		Name:          "Funded",
		TargetAmount:  core.Money{Cents: 100000},
		CurrentAmount: core.Money{Cents: 100000},
		TargetDate:    "2026-06-01",
	}}
	p := GoalProgress(goals, "2026-02-10")[0]
	if p.RequiredMonthlyPace != nil {
		t.Fatalf("reached goal must have nil pace, got %d", p.RequiredMonthlyPace.Cents)
	}
}
