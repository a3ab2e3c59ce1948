package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/cjaradhye/money-minder/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// --- categories ---

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, icon, color FROM categories ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, icon, color) VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, c.Icon, c.Color)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// EnsureCategory inserts the category if its name is new and returns the
// stored row either way. Name matching is case-insensitive.
func (r *SQLiteRepository) EnsureCategory(ctx context.Context, name string) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, icon, color FROM categories WHERE name = ? COLLATE NOCASE`, name).
		Scan(&c.ID, &c.Name, &c.Icon, &c.Color)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("lookup category: %w", err)
	}
	return r.CreateCategory(ctx, core.Category{Name: name})
}

// --- tags ---

func (r *SQLiteRepository) ListTags(ctx context.Context) ([]core.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM tags ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []core.Tag
	for rows.Next() {
		var t core.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// EnsureTags creates any tags missing by name and returns the IDs for all of
// them in input order.
func (r *SQLiteRepository) EnsureTags(ctx context.Context, names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var id string
		err := r.db.QueryRowContext(ctx,
			`SELECT id FROM tags WHERE name = ? COLLATE NOCASE`, name).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			id = uuid.NewString()
			if _, err := r.db.ExecContext(ctx,
				`INSERT INTO tags (id, name) VALUES (?, ?)`, id, name); err != nil {
				return nil, fmt.Errorf("create tag %q: %w", name, err)
			}
		} else if err != nil {
			return nil, fmt.Errorf("lookup tag %q: %w", name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// --- transactions ---

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var categoryID any
	if t.CategoryID != "" {
		categoryID = t.CategoryID
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, type, amount_cents, description, date, category_id, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, string(t.Type), t.Amount.Cents, t.Description, string(t.Date), categoryID, t.Notes)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	for _, tagID := range t.TagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO transaction_tags (transaction_id, tag_id) VALUES (?, ?)`,
			t.ID, tagID); err != nil {
			return core.Transaction{}, fmt.Errorf("link tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"type", t.Type,
		"amount_cents", t.Amount.Cents,
		"date", t.Date)

	return t, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	var t core.Transaction
	var categoryID sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, type, amount_cents, description, date, category_id, notes
		 FROM transactions WHERE id = ?`, id).
		Scan(&t.ID, &t.Type, &t.Amount.Cents, &t.Description, &t.Date, &categoryID, &t.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	t.CategoryID = categoryID.String

	t.TagIDs, err = r.transactionTagIDs(ctx, t.ID)
	if err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTransactionsByMonth returns the month's transactions ordered by date
// then insertion order. The date column is lexically comparable so the range
// is a plain BETWEEN.
func (r *SQLiteRepository) ListTransactionsByMonth(ctx context.Context, month core.MonthYear) ([]core.Transaction, error) {
	first, last := month.Bounds()
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, type, amount_cents, description, date, category_id, notes
		 FROM transactions WHERE date BETWEEN ? AND ?
		 ORDER BY date, created_at`,
		string(first), string(last))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var categoryID sql.NullString
		if err := rows.Scan(&t.ID, &t.Type, &t.Amount.Cents, &t.Description, &t.Date, &categoryID, &t.Notes); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.CategoryID = categoryID.String
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range txns {
		txns[i].TagIDs, err = r.transactionTagIDs(ctx, txns[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return txns, nil
}

func (r *SQLiteRepository) transactionTagIDs(ctx context.Context, transactionID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tag_id FROM transaction_tags WHERE transaction_id = ?`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list transaction tags: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tag id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// --- budgets ---

func (r *SQLiteRepository) ListBudgetsForMonth(ctx context.Context, month core.MonthYear) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category_id, limit_cents, month_year FROM budgets WHERE month_year = ?`,
		string(month))
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.CategoryID, &b.MonthlyLimit.Cents, &b.MonthYear); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// UpsertBudget creates the budget or replaces the limit of the existing one
// for the same category and month.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (id, category_id, limit_cents, month_year) VALUES (?, ?, ?, ?)
		 ON CONFLICT (category_id, month_year) DO UPDATE SET limit_cents = excluded.limit_cents`,
		b.ID, b.CategoryID, b.MonthlyLimit.Cents, string(b.MonthYear))
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}

	// The insert may have hit the conflict branch, so re-read the row ID.
	err = r.db.QueryRowContext(ctx,
		`SELECT id FROM budgets WHERE category_id = ? AND month_year = ?`,
		b.CategoryID, string(b.MonthYear)).Scan(&b.ID)
	if err != nil {
		return core.Budget{}, fmt.Errorf("read budget after upsert: %w", err)
	}
	return b, nil
}

// --- goals ---

func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, target_cents, current_cents, COALESCE(target_date, '') FROM goals ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		var g core.Goal
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount.Cents, &g.CurrentAmount.Cents, &g.TargetDate); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	var targetDate any
	if g.TargetDate != "" {
		targetDate = string(g.TargetDate)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (id, name, target_cents, current_cents, target_date) VALUES (?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents, targetDate)
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) UpdateGoalAmount(ctx context.Context, id string, current core.Money) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET current_cents = ? WHERE id = ?`, current.Cents, id)
	if err != nil {
		return fmt.Errorf("update goal amount: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- recurring transactions ---

func (r *SQLiteRepository) ListRecurring(ctx context.Context) ([]core.RecurringTransaction, error) {
	return r.queryRecurring(ctx,
		`SELECT id, type, amount_cents, description, COALESCE(category_id, ''), frequency, next_run_date, paused
		 FROM recurring_transactions ORDER BY next_run_date`)
}

// ListDueRecurring returns active templates whose next run date is on or
// before asOf.
func (r *SQLiteRepository) ListDueRecurring(ctx context.Context, asOf core.Date) ([]core.RecurringTransaction, error) {
	return r.queryRecurring(ctx,
		`SELECT id, type, amount_cents, description, COALESCE(category_id, ''), frequency, next_run_date, paused
		 FROM recurring_transactions WHERE paused = 0 AND next_run_date <= ?
		 ORDER BY next_run_date`, string(asOf))
}

func (r *SQLiteRepository) queryRecurring(ctx context.Context, query string, args ...any) ([]core.RecurringTransaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recurring transactions: %w", err)
	}
	defer rows.Close()

	var recs []core.RecurringTransaction
	for rows.Next() {
		var rec core.RecurringTransaction
		if err := rows.Scan(&rec.ID, &rec.Type, &rec.Amount.Cents, &rec.Description,
			&rec.CategoryID, &rec.Frequency, &rec.NextRunDate, &rec.Paused); err != nil {
			return nil, fmt.Errorf("scan recurring transaction: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (r *SQLiteRepository) CreateRecurring(ctx context.Context, rec core.RecurringTransaction) (core.RecurringTransaction, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	var categoryID any
	if rec.CategoryID != "" {
		categoryID = rec.CategoryID
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_transactions (id, type, amount_cents, description, category_id, frequency, next_run_date, paused)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Type), rec.Amount.Cents, rec.Description, categoryID,
		string(rec.Frequency), string(rec.NextRunDate), rec.Paused)
	if err != nil {
		return core.RecurringTransaction{}, fmt.Errorf("create recurring transaction: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) UpdateRecurringNextRun(ctx context.Context, id string, next core.Date) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurring_transactions SET next_run_date = ? WHERE id = ?`, string(next), id)
	if err != nil {
		return fmt.Errorf("update recurring next run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) SetRecurringPaused(ctx context.Context, id string, paused bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurring_transactions SET paused = ? WHERE id = ?`, paused, id)
	if err != nil {
		return fmt.Errorf("set recurring paused: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- alerts ---

// CreateAlert inserts the alert unless an identical budget alert already
// exists for the same month. Returns true when a row was written.
func (r *SQLiteRepository) CreateAlert(ctx context.Context, a core.Alert) (bool, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO alerts (id, type, severity, message, budget_id, goal_id, month_year)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, string(a.Type), string(a.Severity), a.Message, a.BudgetID, a.GoalID, string(a.MonthYear))
	if err != nil {
		return false, fmt.Errorf("create alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create alert rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) ListAlerts(ctx context.Context, unreadOnly bool) ([]core.Alert, error) {
	query := `SELECT id, type, severity, message, budget_id, goal_id, month_year, read, created_at
	          FROM alerts`
	if unreadOnly {
		query += ` WHERE read = 0`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []core.Alert
	for rows.Next() {
		var a core.Alert
		if err := rows.Scan(&a.ID, &a.Type, &a.Severity, &a.Message,
			&a.BudgetID, &a.GoalID, &a.MonthYear, &a.Read, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (r *SQLiteRepository) MarkAlertRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE alerts SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
