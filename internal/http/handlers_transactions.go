package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"finsight/internal/core"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	month, err := s.monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}

	txs, err := s.transactions.List(r.Context(), month)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	views := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		views = append(views, toTransactionView(tx))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"month":        string(month),
		"transactions": views,
	})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := req.toTransaction()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.transactions.Create(r.Context(), tx)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.dashCache.Delete(string(core.MonthOf(tx.Date.Time)))

	tx.ID = id
	writeJSON(w, http.StatusCreated, toTransactionView(tx))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.transactions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionView(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tx, err := s.transactions.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if err := s.transactions.Delete(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.dashCache.Delete(string(core.MonthOf(tx.Date.Time)))
	w.WriteHeader(http.StatusNoContent)
}
