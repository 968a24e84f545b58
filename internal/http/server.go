// Package httpapi exposes the catalog, recommendations and sessions over
// JSON HTTP.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hperssn/recharge/internal/recommend"
	"github.com/hperssn/recharge/internal/runner"
	"github.com/hperssn/recharge/internal/storage"
)

type Server struct {
	catalog  storage.Catalog
	history  storage.History
	selector *recommend.Selector
	sessions *runner.SessionManager
	log      *slog.Logger
}

func NewServer(
	catalog storage.Catalog,
	history storage.History,
	selector *recommend.Selector,
	sessions *runner.SessionManager,
	log *slog.Logger,
) *Server {
	return &Server{
		catalog:  catalog,
		history:  history,
		selector: selector,
		sessions: sessions,
		log:      log,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(s.ExtractUser)

	r.Get("/recharge", s.listExercises)
	r.Post("/recharge", s.createExercise)
	r.Get("/recharge/{id}", s.getExercise)
	r.Get("/recommend", s.recommend)

	r.Post("/sessions", s.startSession)
	r.Get("/sessions/{id}", s.getSession)
	r.Delete("/sessions/{id}", s.stopSession)
	r.Post("/sessions/{id}/toggle", s.sessionAction(s.sessions.Toggle))
	r.Post("/sessions/{id}/reset", s.sessionAction(s.sessions.Reset))
	r.Post("/sessions/{id}/next", s.sessionAction(s.sessions.NextStep))
	r.Post("/sessions/{id}/prev", s.sessionAction(s.sessions.PrevStep))
	r.Post("/sessions/{id}/rating", s.rateSession)
	r.Get("/sessions/{id}/events", s.streamSessionEvents)

	r.Get("/me/history", s.completionHistory)
	r.Get("/me/stats", s.completionStats)

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			s.log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, message string, status int) {
	s.respondJSON(w, map[string]string{"error": message}, status)
}
