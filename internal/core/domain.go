package core

import (
	"errors"
	"strings"
)

const (
	Expense TransactionType = "EXPENSE"
	Income  TransactionType = "INCOME"
)

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
)

const (
	AlertBudgetOverspent AlertType = "BUDGET_OVERSPENT"
	AlertBudgetAtRisk    AlertType = "BUDGET_AT_RISK"
	AlertGoalOffTrack    AlertType = "GOAL_OFF_TRACK"
	AlertGeneral         AlertType = "GENERAL"
)

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

type (
	TransactionType string
	Frequency       string
	AlertType       string
	Severity        string

	// Category is a read-only lookup entity for the parsers. Name matching is
	// case-insensitive; names are unique per user.
	Category struct {
		ID    string
		Name  string
		Icon  string
		Color string
	}

	Tag struct {
		ID   string
		Name string
	}

	// TransactionDraft is a structurally valid, not-yet-persisted transaction.
	// Both the entry parser and the CSV importer produce this shape; a draft is
	// either fully valid or rejected with a reason, never partial.
	TransactionDraft struct {
		Type        TransactionType
		Amount      Money
		Description string
		Date        Date
		CategoryID  string
		TagIDs      []string
		Notes       string

		// Display-only resolution results. CategoryName carries the @mention
		// verbatim even when it resolved to no stored category; TagNames carries
		// every #tag, resolved or not.
		CategoryName string
		TagNames     []string
	}

	Transaction struct {
		ID          string
		Type        TransactionType
		Amount      Money
		Description string
		Date        Date
		CategoryID  string
		TagIDs      []string
		Notes       string
	}

	Budget struct {
		ID           string
		CategoryID   string
		MonthlyLimit Money
		MonthYear    MonthYear
	}

	Goal struct {
		ID            string
		Name          string
		TargetAmount  Money
		CurrentAmount Money
		TargetDate    Date // empty when the goal is open-ended
	}

	RecurringTransaction struct {
		ID          string
		Type        TransactionType
		Amount      Money
		Description string
		CategoryID  string
		Frequency   Frequency
		NextRunDate Date
		Paused      bool
	}

	Alert struct {
		ID        string
		Type      AlertType
		Message   string
		Severity  Severity
		Read      bool
		BudgetID  string // set for budget alerts, used to dedupe per month
		GoalID    string // set for goal alerts
		MonthYear MonthYear
		CreatedAt string
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrEmptyDescription = errors.New("empty description")
)

func (t TransactionType) Valid() bool {
	return t == Expense || t == Income
}

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

func (d TransactionDraft) Validate() error {
	if !d.Type.Valid() {
		return ErrInvalidType
	}
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(d.Description) == "" {
		return ErrEmptyDescription
	}
	if !d.Date.Valid() {
		return ErrInvalidDate
	}
	return nil
}

func (b Budget) Validate() error {
	if err := b.MonthlyLimit.Validate(); err != nil {
		return err
	}
	if !b.MonthYear.Valid() {
		return ErrInvalidDate
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyDescription
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return err
	}
	if g.TargetDate != "" && !g.TargetDate.Valid() {
		return ErrInvalidDate
	}
	return nil
}

func (r RecurringTransaction) Validate() error {
	if !r.Type.Valid() {
		return ErrInvalidType
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Description) == "" {
		return ErrEmptyDescription
	}
	if !r.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if !r.NextRunDate.Valid() {
		return ErrInvalidDate
	}
	return nil
}
