package http

import (
	"net/http"

	"finsight/internal/core"
	"finsight/internal/insights"
)

// loadDashboard returns the cached dashboard for a month, building it
// from storage on a miss.
func (s *Server) loadDashboard(r *http.Request, month core.Month) (insights.Dashboard, error) {
	if dash, ok := s.dashCache.Get(string(month)); ok {
		return dash, nil
	}

	ctx := r.Context()
	txs, err := s.transactions.List(ctx, month)
	if err != nil {
		return insights.Dashboard{}, err
	}
	goals, err := s.goals.List(ctx)
	if err != nil {
		return insights.Dashboard{}, err
	}

	dash := insights.BuildDashboard(txs, goals, month, s.budgetCents)
	s.dashCache.Set(string(month), dash)
	return dash, nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	month, err := s.monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}

	dash, err := s.loadDashboard(r, month)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardView(dash))
}

type insightsResponse struct {
	Month    string        `json:"month"`
	Insights []insightView `json:"insights"`
	Index    *int          `json:"index,omitempty"`
	Current  *insightView  `json:"current,omitempty"`
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	month, err := s.monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}
	idx, hasIdx, err := indexParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be a non-negative integer")
		return
	}

	dash, err := s.loadDashboard(r, month)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	resp := insightsResponse{
		Month:    string(month),
		Insights: make([]insightView, 0, len(dash.Insights)),
	}
	for _, i := range dash.Insights {
		resp.Insights = append(resp.Insights, toInsightView(i))
	}
	if hasIdx && len(resp.Insights) > 0 {
		// rotation wraps so clients can keep a monotonically growing counter
		pos := idx % len(resp.Insights)
		resp.Index = &pos
		resp.Current = &resp.Insights[pos]
	}
	writeJSON(w, http.StatusOK, resp)
}
