package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cjaradhye/money-minder/internal/core"
	"github.com/cjaradhye/money-minder/internal/report"
)

// AlertStore is the storage surface alert evaluation needs.
type AlertStore interface {
	ListCategories(ctx context.Context) ([]core.Category, error)
	ListTransactionsByMonth(ctx context.Context, month core.MonthYear) ([]core.Transaction, error)
	ListBudgetsForMonth(ctx context.Context, month core.MonthYear) ([]core.Budget, error)
	ListGoals(ctx context.Context) ([]core.Goal, error)
	CreateAlert(ctx context.Context, a core.Alert) (bool, error)
	ListAlerts(ctx context.Context, unreadOnly bool) ([]core.Alert, error)
	MarkAlertRead(ctx context.Context, id string) error
}

type AlertService struct {
	store AlertStore
}

func NewAlertService(store AlertStore) *AlertService {
	return &AlertService{store: store}
}

// EvaluateMonth recomputes budget and goal alerts for a month. Budget alerts
// dedupe per budget per month in storage, so re-running an evaluation is
// idempotent. Returns how many new alerts were written.
func (s *AlertService) EvaluateMonth(ctx context.Context, month core.MonthYear, today core.Date) (int, error) {
	txns, err := s.store.ListTransactionsByMonth(ctx, month)
	if err != nil {
		return 0, fmt.Errorf("list transactions: %w", err)
	}
	budgets, err := s.store.ListBudgetsForMonth(ctx, month)
	if err != nil {
		return 0, fmt.Errorf("list budgets: %w", err)
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return 0, fmt.Errorf("list categories: %w", err)
	}

	nameByID := make(map[string]string, len(categories))
	for _, c := range categories {
		nameByID[c.ID] = c.Name
	}

	created := 0
	for _, status := range report.BudgetStatuses(budgets, txns) {
		alert, ok := budgetAlert(status, nameByID, month)
		if !ok {
			continue
		}
		wrote, err := s.store.CreateAlert(ctx, alert)
		if err != nil {
			return created, fmt.Errorf("create budget alert: %w", err)
		}
		if wrote {
			created++
		}
	}

	goals, err := s.store.ListGoals(ctx)
	if err != nil {
		return created, fmt.Errorf("list goals: %w", err)
	}
	for _, p := range report.GoalProgress(goals, today) {
		alert, ok := goalAlert(p, month)
		if !ok {
			continue
		}
		wrote, err := s.store.CreateAlert(ctx, alert)
		if err != nil {
			return created, fmt.Errorf("create goal alert: %w", err)
		}
		if wrote {
			created++
		}
	}

	slog.InfoContext(ctx, "Alert evaluation complete",
		"month", month,
		"created", created)
	return created, nil
}

// budgetAlert maps a budget status to an alert. OK budgets produce none.
func budgetAlert(status core.BudgetStatus, nameByID map[string]string, month core.MonthYear) (core.Alert, bool) {
	name := nameByID[status.Budget.CategoryID]
	if name == "" {
		name = report.UncategorizedLabel
	}

	switch status.Status {
	case core.BudgetOverspent:
		over := core.Money{Cents: status.Spent.Cents - status.Budget.MonthlyLimit.Cents}
		return core.Alert{
			Type:     core.AlertBudgetOverspent,
			Severity: core.SeverityCritical,
			Message: fmt.Sprintf("You've exceeded your %s budget by %s this month.",
				name, report.FormatINR(over)),
			BudgetID:  status.Budget.ID,
			MonthYear: month,
		}, true
	case core.BudgetAtRisk:
		return core.Alert{
			Type:     core.AlertBudgetAtRisk,
			Severity: core.SeverityWarning,
			Message: fmt.Sprintf("You've used %.0f%% of your %s budget. %s remaining.",
				status.Percentage, name, report.FormatINR(status.Remaining)),
			BudgetID:  status.Budget.ID,
			MonthYear: month,
		}, true
	}
	return core.Alert{}, false
}

// goalAlert fires when a goal's target date has passed without the target
// amount being reached.
func goalAlert(p core.GoalProgress, month core.MonthYear) (core.Alert, bool) {
	if p.Goal.TargetDate == "" || p.DaysRemaining == nil {
		return core.Alert{}, false
	}
	if *p.DaysRemaining > 0 || p.Goal.CurrentAmount.Cents >= p.Goal.TargetAmount.Cents {
		return core.Alert{}, false
	}
	remaining := core.Money{Cents: p.Goal.TargetAmount.Cents - p.Goal.CurrentAmount.Cents}
	return core.Alert{
		Type:     core.AlertGoalOffTrack,
		Severity: core.SeverityWarning,
		Message: fmt.Sprintf("Your goal \"%s\" passed its target date with %s still to save.",
			p.Goal.Name, report.FormatINR(remaining)),
		GoalID:    p.Goal.ID,
		MonthYear: month,
	}, true
}

// List returns alerts, optionally only unread ones.
func (s *AlertService) List(ctx context.Context, unreadOnly bool) ([]core.Alert, error) {
	return s.store.ListAlerts(ctx, unreadOnly)
}

// MarkRead marks one alert as read.
func (s *AlertService) MarkRead(ctx context.Context, id string) error {
	return s.store.MarkAlertRead(ctx, id)
}
