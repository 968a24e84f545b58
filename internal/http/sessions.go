package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hperssn/recharge/internal/domain"
	"github.com/hperssn/recharge/internal/runner"
	"github.com/hperssn/recharge/internal/storage"
)

const defaultHistoryLimit = 20

type sessionResponse struct {
	*domain.Session
	Step      *string `json:"step"`
	StepCount int     `json:"stepCount"`
}

func newSessionResponse(s *domain.Session) sessionResponse {
	resp := sessionResponse{Session: s, StepCount: s.StepCount()}
	if step, ok := s.CurrentStep(); ok {
		resp.Step = &step
	}
	return resp
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExerciseID string `json:"exerciseId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ExerciseID == "" {
		s.respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	e, err := s.catalog.GetExercise(r.Context(), req.ExerciseID)
	if errors.Is(err, domain.ErrNotFound) {
		s.respondError(w, "Recharge method not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("fetching exercise for session", "id", req.ExerciseID, "error", err)
		s.respondError(w, "Failed to fetch recharge details", http.StatusInternalServerError)
		return
	}

	session := s.sessions.Start(UserID(r), e)
	s.respondJSON(w, newSessionResponse(session), http.StatusCreated)
}

// ownedSession resolves {id} to a session of the requesting user.
// Sessions of other users are reported as missing.
func (s *Server) ownedSession(w http.ResponseWriter, r *http.Request) (*domain.Session, bool) {
	id := chi.URLParam(r, "id")

	session, ok := s.sessions.GetSession(id)
	if !ok || session.UserID != UserID(r) {
		s.respondError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.ownedSession(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, newSessionResponse(session), http.StatusOK)
}

func (s *Server) sessionAction(action func(id string) (*domain.Session, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := s.ownedSession(w, r)
		if !ok {
			return
		}

		updated, err := action(session.ID)
		if err != nil {
			s.respondError(w, "Session not found", http.StatusNotFound)
			return
		}

		s.respondJSON(w, newSessionResponse(updated), http.StatusOK)
	}
}

func (s *Server) stopSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.ownedSession(w, r)
	if !ok {
		return
	}

	if err := s.sessions.StopSession(session.ID); err != nil {
		s.respondError(w, "Session not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) rateSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.ownedSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Rating int `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := s.sessions.Rate(r.Context(), session.ID, req.Rating)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, runner.ErrInvalidRating):
		s.respondError(w, "Invalid rating", http.StatusBadRequest)
	case errors.Is(err, runner.ErrNotComplete):
		s.respondError(w, "Session not complete", http.StatusConflict)
	case errors.Is(err, runner.ErrSessionNotFound), errors.Is(err, storage.ErrCompletionNotFound):
		s.respondError(w, "Session not found", http.StatusNotFound)
	default:
		s.log.Error("rating session", "session", session.ID, "error", err)
		s.respondError(w, "Failed to save rating", http.StatusInternalServerError)
	}
}

func (s *Server) completionHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.respondError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := s.history.CompletionsByUser(r.Context(), UserID(r), limit)
	if err != nil {
		s.log.Error("fetching history", "error", err)
		s.respondError(w, "Failed to fetch history", http.StatusInternalServerError)
		return
	}

	s.respondJSON(w, records, http.StatusOK)
}

func (s *Server) completionStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.history.CompletionStats(r.Context(), UserID(r))
	if err != nil {
		s.log.Error("fetching stats", "error", err)
		s.respondError(w, "Failed to fetch stats", http.StatusInternalServerError)
		return
	}

	s.respondJSON(w, stats, http.StatusOK)
}
