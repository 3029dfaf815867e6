package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"finsight/internal/core"
	"finsight/internal/insights"
	"finsight/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps service errors onto status codes. Validation
// failures from core are client errors; everything else is a 500.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case isValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		core.ErrInvalidDate, core.ErrInvalidMonth, core.ErrInvalidAmount,
		core.ErrInvalidType, core.ErrEmptyCategory, core.ErrEmptyGoalName,
		core.ErrInvalidTarget, core.ErrNegativeCurrent,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// View structs keep wire names stable regardless of domain renames.

type transactionView struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	AmountCents int64  `json:"amount_cents"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

type goalView struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	CurrentCents int64   `json:"current_cents"`
	TargetCents  int64   `json:"target_cents"`
	Progress     float64 `json:"progress"`
}

type metricsView struct {
	Month          string  `json:"month"`
	IncomeCents    int64   `json:"income_cents"`
	ExpenseCents   int64   `json:"expense_cents"`
	BudgetCents    int64   `json:"budget_cents"`
	RemainingCents int64   `json:"remaining_cents"`
	UsedPercent    float64 `json:"used_percent"`
	SavingsRate    float64 `json:"savings_rate"`
}

type pieSliceView struct {
	Name  string `json:"name"`
	Cents int64  `json:"cents"`
	Token string `json:"token"`
}

type categoryView struct {
	Name  string `json:"name"`
	Cents int64  `json:"cents"`
}

type insightView struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type dashboardView struct {
	Metrics    metricsView       `json:"metrics"`
	Pie        []pieSliceView    `json:"pie"`
	Recent     []transactionView `json:"recent"`
	Categories []categoryView    `json:"categories"`
	Insights   []insightView     `json:"insights"`
}

func toTransactionView(tx core.Transaction) transactionView {
	return transactionView{
		ID:          tx.ID,
		Date:        tx.Date.ISO(),
		Type:        string(tx.Type),
		AmountCents: tx.Amount.Cents,
		Category:    tx.Category,
		Description: tx.Description,
	}
}

func toGoalView(g core.Goal) goalView {
	return goalView{
		ID:           g.ID,
		Name:         g.Name,
		CurrentCents: g.Current.Cents,
		TargetCents:  g.Target.Cents,
		Progress:     g.Progress(),
	}
}

func toMetricsView(m insights.Metrics) metricsView {
	return metricsView{
		Month:          string(m.Month),
		IncomeCents:    m.IncomeCents,
		ExpenseCents:   m.ExpenseCents,
		BudgetCents:    m.BudgetCents,
		RemainingCents: m.RemainingCents,
		UsedPercent:    m.UsedPercent,
		SavingsRate:    m.SavingsRate,
	}
}

func toInsightView(i insights.Insight) insightView {
	return insightView{Type: i.Type, Title: i.Title, Message: i.Message}
}

func toDashboardView(d insights.Dashboard) dashboardView {
	v := dashboardView{
		Metrics:    toMetricsView(d.Metrics),
		Pie:        make([]pieSliceView, 0, len(d.Pie)),
		Recent:     make([]transactionView, 0, len(d.Recent)),
		Categories: make([]categoryView, 0, len(d.Categories)),
		Insights:   make([]insightView, 0, len(d.Insights)),
	}
	for _, slice := range d.Pie {
		v.Pie = append(v.Pie, pieSliceView{Name: slice.Name, Cents: slice.Cents, Token: slice.Token})
	}
	for _, tx := range d.Recent {
		v.Recent = append(v.Recent, toTransactionView(tx))
	}
	for _, c := range d.Categories {
		v.Categories = append(v.Categories, categoryView{Name: c.Name, Cents: c.Cents})
	}
	for _, i := range d.Insights {
		v.Insights = append(v.Insights, toInsightView(i))
	}
	return v
}
