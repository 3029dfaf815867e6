package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"finsight/internal/advisor"
	"finsight/internal/core"
)

type chatResponse struct {
	Month  string `json:"month"`
	Answer string `json:"answer"`
}

func (s *Server) handleAdvisorChat(w http.ResponseWriter, r *http.Request) {
	if s.advisor == nil {
		writeError(w, http.StatusServiceUnavailable, "advisor not configured")
		return
	}

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	month := core.MonthOf(s.now())
	if strings.TrimSpace(req.Month) != "" {
		m, err := core.ParseMonth(req.Month)
		if err != nil {
			writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}
		month = m
	}

	dash, err := s.loadDashboard(r, month)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	answer, err := s.advisor.Chat(r.Context(), question, dash)
	if err != nil {
		if errors.Is(err, advisor.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "advisor not configured")
			return
		}
		slog.ErrorContext(r.Context(), "Advisor chat failed", "month", month, "error", err)
		writeError(w, http.StatusBadGateway, "advisor request failed")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Month: string(month), Answer: answer})
}
