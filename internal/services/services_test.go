package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/cjaradhye/money-minder/internal/core"
)

// fakeStore is an in-memory stand-in for the SQLite repository, shared by the
// service tests.
type fakeStore struct {
	categories []core.Category
	tags       []core.Tag
	txns       []core.Transaction
	budgets    []core.Budget
	goals      []core.Goal
	recurring  []core.RecurringTransaction
	alerts     []core.Alert

	nextRuns map[string]core.Date
	failNext bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextRuns: make(map[string]core.Date)}
}

func (f *fakeStore) ListCategories(ctx context.Context) ([]core.Category, error) {
	return f.categories, nil
}

func (f *fakeStore) ListTags(ctx context.Context) ([]core.Tag, error) {
	return f.tags, nil
}

func (f *fakeStore) EnsureTags(ctx context.Context, names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		found := ""
		for _, t := range f.tags {
			if strings.EqualFold(t.Name, name) {
				found = t.ID
				break
			}
		}
		if found == "" {
			found = "tag-" + strings.ToLower(name)
			f.tags = append(f.tags, core.Tag{ID: found, Name: name})
		}
		ids = append(ids, found)
	}
	return ids, nil
}

func (f *fakeStore) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if f.failNext {
		f.failNext = false
		return core.Transaction{}, fmt.Errorf("store unavailable")
	}
	if t.ID == "" {
		t.ID = fmt.Sprintf("tx-%d", len(f.txns)+1)
	}
	f.txns = append(f.txns, t)
	return t, nil
}

func (f *fakeStore) ListTransactionsByMonth(ctx context.Context, month core.MonthYear) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range f.txns {
		if month.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) ListBudgetsForMonth(ctx context.Context, month core.MonthYear) ([]core.Budget, error) {
	var out []core.Budget
	for _, b := range f.budgets {
		if b.MonthYear == month {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if b.ID == "" {
		b.ID = fmt.Sprintf("budget-%d", len(f.budgets)+1)
	}
	f.budgets = append(f.budgets, b)
	return b, nil
}

func (f *fakeStore) ListGoals(ctx context.Context) ([]core.Goal, error) {
	return f.goals, nil
}

func (f *fakeStore) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if g.ID == "" {
		g.ID = fmt.Sprintf("goal-%d", len(f.goals)+1)
	}
	f.goals = append(f.goals, g)
	return g, nil
}

func (f *fakeStore) CreateAlert(ctx context.Context, a core.Alert) (bool, error) {
	for _, existing := range f.alerts {
		if existing.Type == a.Type && existing.MonthYear == a.MonthYear &&
			((a.BudgetID != "" && existing.BudgetID == a.BudgetID) ||
				(a.GoalID != "" && existing.GoalID == a.GoalID)) {
			return false, nil
		}
	}
	if a.ID == "" {
		a.ID = fmt.Sprintf("alert-%d", len(f.alerts)+1)
	}
	f.alerts = append(f.alerts, a)
	return true, nil
}

func (f *fakeStore) ListAlerts(ctx context.Context, unreadOnly bool) ([]core.Alert, error) {
	if !unreadOnly {
		return f.alerts, nil
	}
	var out []core.Alert
	for _, a := range f.alerts {
		if !a.Read {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkAlertRead(ctx context.Context, id string) error {
	for i := range f.alerts {
		if f.alerts[i].ID == id {
			f.alerts[i].Read = true
			return nil
		}
	}
	return fmt.Errorf("alert %s not found", id)
}

func (f *fakeStore) ListDueRecurring(ctx context.Context, asOf core.Date) ([]core.RecurringTransaction, error) {
	var out []core.RecurringTransaction
	for _, r := range f.recurring {
		if !r.Paused && r.NextRunDate <= asOf {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateRecurringNextRun(ctx context.Context, id string, next core.Date) error {
	f.nextRuns[id] = next
	return nil
}

// fakePublisher records events and optionally fails.
type fakePublisher struct {
	published []string
	fail      bool
}

func (p *fakePublisher) PublishTransactionCreated(ctx context.Context, id, monthYear string) error {
	if p.fail {
		return fmt.Errorf("broker down")
	}
	p.published = append(p.published, id+"@"+monthYear)
	return nil
}

// fakeInvalidator records invalidated months.
type fakeInvalidator struct {
	months []core.MonthYear
}

func (i *fakeInvalidator) InvalidateMonth(month core.MonthYear) {
	i.months = append(i.months, month)
}
