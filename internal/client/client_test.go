package client

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hperssn/recharge/internal/domain"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecommend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/recommend", r.URL.Path)
		require.Equal(t, "focus", r.URL.Query().Get("mood"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":"1","title":"4-7-8 Breathing","duration":3,"category":"breathing","imageUrl":null}]`)
	}))
	t.Cleanup(srv.Close)

	got, err := New(srv.URL+"/", discard()).Recommend(context.Background(), domain.MoodFocus)

	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "1", got[0].ID)
	require.Equal(t, domain.CategoryBreathing, got[0].Category)
}

func TestRecommendOrFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"Failed to fetch recommendations"}`, http.StatusInternalServerError)
			},
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `<html>`)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			t.Cleanup(srv.Close)
			c := New(srv.URL, discard())

			_, err := c.Recommend(context.Background(), domain.MoodFocus)
			require.ErrorIs(t, err, ErrTransient)

			got, err := c.RecommendOr(context.Background(), domain.MoodFocus, FocusFallback())
			require.NoError(t, err)
			require.Equal(t, FocusFallback(), got)
		})
	}
}

func TestRecommendOrUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	got, err := New(url, discard()).RecommendOr(context.Background(), domain.MoodEmotion, FocusFallback())

	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestExerciseNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"Recharge method not found"}`)
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL, discard()).Exercise(context.Background(), "9")

	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NotErrorIs(t, err, ErrTransient)
}

func TestExerciseBadRequestIsNotTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"nope"}`)
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL, discard()).Exercise(context.Background(), "9")

	require.Error(t, err)
	require.NotErrorIs(t, err, ErrTransient)
	require.Contains(t, err.Error(), "nope")
}
