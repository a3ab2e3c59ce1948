package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cjaradhye/money-minder/internal/core"
	"github.com/cjaradhye/money-minder/internal/entry"
	"github.com/cjaradhye/money-minder/internal/report"
	"github.com/cjaradhye/money-minder/internal/storage"
)

const maxBodyBytes = 1 << 20 // 1 MiB, plenty for a CSV import

// --- JSON shapes ---

type entryRequest struct {
	Input string `json:"input"`
}

type parseErrorResponse struct {
	Reason  entry.Reason `json:"reason"`
	Message string       `json:"message"`
}

type draftResponse struct {
	Type         core.TransactionType `json:"type"`
	Amount       float64              `json:"amount"`
	Description  string               `json:"description"`
	Date         core.Date            `json:"date"`
	CategoryID   string               `json:"category_id,omitempty"`
	CategoryName string               `json:"category_name,omitempty"`
	TagIDs       []string             `json:"tag_ids,omitempty"`
	TagNames     []string             `json:"tag_names,omitempty"`
}

type transactionResponse struct {
	ID          string               `json:"id"`
	Type        core.TransactionType `json:"type"`
	Amount      float64              `json:"amount"`
	Description string               `json:"description"`
	Date        core.Date            `json:"date"`
	CategoryID  string               `json:"category_id,omitempty"`
	TagIDs      []string             `json:"tag_ids,omitempty"`
	Notes       string               `json:"notes,omitempty"`
}

type categoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

type tagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type budgetStatusResponse struct {
	BudgetID   string           `json:"budget_id"`
	CategoryID string           `json:"category_id"`
	Month      core.MonthYear   `json:"month"`
	Limit      float64          `json:"limit"`
	Spent      float64          `json:"spent"`
	Remaining  float64          `json:"remaining"`
	Percentage float64          `json:"percentage"`
	Status     core.BudgetState `json:"status"`
}

type goalProgressResponse struct {
	GoalID              string    `json:"goal_id"`
	Name                string    `json:"name"`
	TargetAmount        float64   `json:"target_amount"`
	CurrentAmount       float64   `json:"current_amount"`
	TargetDate          core.Date `json:"target_date,omitempty"`
	Percentage          float64   `json:"percentage"`
	DaysRemaining       *int      `json:"days_remaining,omitempty"`
	RequiredMonthlyPace *float64  `json:"required_monthly_pace,omitempty"`
}

type categorySpendResponse struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type summaryResponse struct {
	Month            core.MonthYear          `json:"month"`
	TotalIncome      float64                 `json:"total_income"`
	TotalExpenses    float64                 `json:"total_expenses"`
	NetBalance       float64                 `json:"net_balance"`
	TopCategories    []categorySpendResponse `json:"top_categories"`
	TransactionCount int                     `json:"transaction_count"`
}

type alertResponse struct {
	ID        string         `json:"id"`
	Type      core.AlertType `json:"type"`
	Severity  core.Severity  `json:"severity"`
	Message   string         `json:"message"`
	Read      bool           `json:"read"`
	CreatedAt string         `json:"created_at"`
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// monthFromQuery reads ?month=YYYY-MM, defaulting to the current month.
func monthFromQuery(r *http.Request) (core.MonthYear, error) {
	v := strings.TrimSpace(r.URL.Query().Get("month"))
	if v == "" {
		return core.CurrentMonth(), nil
	}
	month := core.MonthYear(v)
	if !month.Valid() {
		return "", fmt.Errorf("invalid month %q: want YYYY-MM", v)
	}
	return month, nil
}

func toDraftResponse(d *core.TransactionDraft) draftResponse {
	return draftResponse{
		Type:         d.Type,
		Amount:       d.Amount.Float(),
		Description:  d.Description,
		Date:         d.Date,
		CategoryID:   d.CategoryID,
		CategoryName: d.CategoryName,
		TagIDs:       d.TagIDs,
		TagNames:     d.TagNames,
	}
}

// --- entry handlers ---

func (s *Server) handlePreviewEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	draft, parseErr, err := s.transactions.Preview(r.Context(), req.Input)
	if err != nil {
		slog.ErrorContext(r.Context(), "Preview failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if parseErr != nil {
		writeJSON(w, http.StatusUnprocessableEntity, parseErrorResponse{
			Reason:  parseErr.Reason,
			Message: parseErr.Message,
		})
		return
	}
	writeJSON(w, http.StatusOK, toDraftResponse(draft))
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	tx, parseErr, err := s.transactions.CreateFromInput(r.Context(), req.Input)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create entry failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if parseErr != nil {
		writeJSON(w, http.StatusUnprocessableEntity, parseErrorResponse{
			Reason:  parseErr.Reason,
			Message: parseErr.Message,
		})
		return
	}
	writeJSON(w, http.StatusCreated, transactionResponse{
		ID:          tx.ID,
		Type:        tx.Type,
		Amount:      tx.Amount.Float(),
		Description: tx.Description,
		Date:        tx.Date,
		CategoryID:  tx.CategoryID,
		TagIDs:      tx.TagIDs,
		Notes:       tx.Notes,
	})
}

// --- import handlers ---

func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	csvText := string(body)
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			CSV string `json:"csv"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		csvText = req.CSV
	}

	outcome, err := s.imports.Import(r.Context(), csvText)
	if err != nil {
		slog.ErrorContext(r.Context(), "CSV import failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	status := http.StatusOK
	if outcome.Imported == 0 && len(outcome.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, outcome)
}

func (s *Server) handleSampleCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="sample_transactions.csv"`)
	_, _ = w.Write([]byte(s.imports.Sample()))
}

// --- lookup handlers ---

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	resp := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, categoryResponse{ID: c.ID, Name: c.Name, Icon: c.Icon, Color: c.Color})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.store.ListTags(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List tags failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	resp := make([]tagResponse, 0, len(tags))
	for _, t := range tags {
		resp = append(resp, tagResponse{ID: t.ID, Name: t.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- derived-state handlers ---

func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
	month, err := monthFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	const kind = "budgets"
	if cached, ok := s.viewCache.Get(month, kind); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	budgets, err := s.store.ListBudgetsForMonth(r.Context(), month)
	if err != nil {
		slog.ErrorContext(r.Context(), "List budgets failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	txns, err := s.store.ListTransactionsByMonth(r.Context(), month)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	statuses := report.BudgetStatuses(budgets, txns)
	resp := make([]budgetStatusResponse, 0, len(statuses))
	for _, st := range statuses {
		resp = append(resp, budgetStatusResponse{
			BudgetID:   st.Budget.ID,
			CategoryID: st.Budget.CategoryID,
			Month:      st.Budget.MonthYear,
			Limit:      st.Budget.MonthlyLimit.Float(),
			Spent:      st.Spent.Float(),
			Remaining:  st.Remaining.Float(),
			Percentage: st.Percentage,
			Status:     st.Status,
		})
	}

	s.viewCache.Set(month, kind, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	goals, err := s.store.ListGoals(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List goals failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	progress := report.GoalProgress(goals, core.Today())
	resp := make([]goalProgressResponse, 0, len(progress))
	for _, p := range progress {
		item := goalProgressResponse{
			GoalID:        p.Goal.ID,
			Name:          p.Goal.Name,
			TargetAmount:  p.Goal.TargetAmount.Float(),
			CurrentAmount: p.Goal.CurrentAmount.Float(),
			TargetDate:    p.Goal.TargetDate,
			Percentage:    p.Percentage,
			DaysRemaining: p.DaysRemaining,
		}
		if p.RequiredMonthlyPace != nil {
			pace := p.RequiredMonthlyPace.Float()
			item.RequiredMonthlyPace = &pace
		}
		resp = append(resp, item)
	}
	writeJSON(w, http.StatusOK, resp)
}

// monthlySummary computes or fetches the cached summary for a month.
func (s *Server) monthlySummary(r *http.Request, month core.MonthYear) (core.MonthlySummary, error) {
	const kind = "summary"
	if cached, ok := s.viewCache.Get(month, kind); ok {
		if summary, ok := cached.(core.MonthlySummary); ok {
			return summary, nil
		}
	}

	txns, err := s.store.ListTransactionsByMonth(r.Context(), month)
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("list transactions: %w", err)
	}
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("list categories: %w", err)
	}

	summary := report.Summarize(txns, categories)
	s.viewCache.Set(month, kind, summary)
	return summary, nil
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	month, err := monthFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.monthlySummary(r, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly report failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	top := make([]categorySpendResponse, 0, len(summary.TopCategories))
	for _, c := range summary.TopCategories {
		top = append(top, categorySpendResponse{
			Category:   c.Category,
			Amount:     c.Amount.Float(),
			Percentage: c.Percentage,
		})
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Month:            month,
		TotalIncome:      summary.TotalIncome.Float(),
		TotalExpenses:    summary.TotalExpenses.Float(),
		NetBalance:       summary.NetBalance.Float(),
		TopCategories:    top,
		TransactionCount: summary.TransactionCount,
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	month, err := monthFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.monthlySummary(r, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Insights failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"month":    month,
		"insights": report.Insights(summary),
	})
}

// --- alert handlers ---

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"
	alerts, err := s.alerts.List(r.Context(), unreadOnly)
	if err != nil {
		slog.ErrorContext(r.Context(), "List alerts failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	resp := make([]alertResponse, 0, len(alerts))
	for _, a := range alerts {
		resp = append(resp, alertResponse{
			ID:        a.ID,
			Type:      a.Type,
			Severity:  a.Severity,
			Message:   a.Message,
			Read:      a.Read,
			CreatedAt: a.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkAlertRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing alert id")
		return
	}
	if err := s.alerts.MarkRead(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "alert not found")
			return
		}
		slog.ErrorContext(r.Context(), "Mark alert read failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
