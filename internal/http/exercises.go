package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hperssn/recharge/internal/domain"
	"github.com/hperssn/recharge/internal/storage"
)

func (s *Server) listExercises(w http.ResponseWriter, r *http.Request) {
	filter := storage.Filter{
		Category:   domain.Category(r.URL.Query().Get("category")),
		PublicOnly: true,
	}

	exercises, err := s.catalog.ListExercises(r.Context(), filter)
	if err != nil {
		s.log.Error("listing exercises", "error", err)
		s.respondError(w, "Failed to fetch recharge methods", http.StatusInternalServerError)
		return
	}

	q := r.URL.Query().Get("q")
	summaries := make([]domain.Summary, 0, len(exercises))
	for _, e := range exercises {
		if domain.MatchQuery(e, q) {
			summaries = append(summaries, e.Summary())
		}
	}

	s.respondJSON(w, summaries, http.StatusOK)
}

func (s *Server) getExercise(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	e, err := s.catalog.GetExercise(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		s.respondError(w, "Recharge method not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("fetching exercise", "id", id, "error", err)
		s.respondError(w, "Failed to fetch recharge details", http.StatusInternalServerError)
		return
	}

	s.respondJSON(w, e, http.StatusOK)
}

func (s *Server) createExercise(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	e, err := req.Exercise()
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		s.log.Debug("rejected exercise", "field", verr.Field, "error", verr.Message)
		s.respondError(w, verr.Message, http.StatusBadRequest)
		return
	}
	if err != nil {
		s.respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	e.CreatorID = UserID(r)

	created, err := s.catalog.CreateExercise(r.Context(), e)
	if err != nil {
		s.log.Error("creating exercise", "error", err)
		s.respondError(w, "Failed to create recharge method", http.StatusInternalServerError)
		return
	}

	s.log.Info("exercise created", "id", created.ID, "creator", created.CreatorID, "public", created.IsPublic)
	s.respondJSON(w, created, http.StatusCreated)
}

func (s *Server) recommend(w http.ResponseWriter, r *http.Request) {
	mood, ok := domain.ParseMood(r.URL.Query().Get("mood"))
	if !ok {
		s.log.Debug("unrecognized mood, recommending from full catalog", "mood", r.URL.Query().Get("mood"))
	}

	exercises, err := s.catalog.ListExercises(r.Context(), storage.Filter{PublicOnly: true})
	if err != nil {
		s.log.Error("listing exercises for recommendation", "error", err)
		s.respondError(w, "Failed to fetch recommendations", http.StatusInternalServerError)
		return
	}

	s.respondJSON(w, s.selector.Recommend(mood, exercises), http.StatusOK)
}
