package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.goals.List(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	views := make([]goalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, toGoalView(g))
	}
	writeJSON(w, http.StatusOK, map[string]any{"goals": views})
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	g, err := req.toGoal()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.goals.Create(r.Context(), g)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	// goals feed every month's insights
	s.dashCache.Purge()

	g.ID = id
	writeJSON(w, http.StatusCreated, toGoalView(g))
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := s.goals.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalView(g))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	g, err := req.toGoal()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g.ID = chi.URLParam(r, "id")

	if err := s.goals.Update(r.Context(), g); err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.dashCache.Purge()
	writeJSON(w, http.StatusOK, toGoalView(g))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.goals.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.dashCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}
