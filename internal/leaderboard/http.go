package leaderboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// GET /api/scores?limit=N
func (h *Handler) Scores(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	scores, err := h.svc.Top(limit)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "failed to get scores")
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

// POST /api/score
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var sub Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid score data")
		return
	}
	sc, err := h.svc.Submit(sub)
	switch {
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrNameTooLong), errors.Is(err, ErrOutOfRange):
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeErr(w, http.StatusInternalServerError, "failed to add score")
		return
	}
	writeJSON(w, http.StatusCreated, sc)
}

// POST /api/admin/reset-leaderboard
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := h.svc.Reset(); err != nil {
		writeErr(w, http.StatusInternalServerError, "failed to reset leaderboard")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
