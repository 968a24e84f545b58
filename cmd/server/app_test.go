package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func runRecommend(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	require.NoError(t, app.Run(append([]string{"recharge", "recommend"}, args...)))
	return out.String()
}

func TestRecommendCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "emotion", r.URL.Query().Get("mood"))
		io.WriteString(w, `[{"id":"2","title":"Progressive Muscle Relaxation","duration":10,"category":"body-relaxation"}]`)
	}))
	t.Cleanup(srv.Close)

	out := runRecommend(t, "--server", srv.URL, "--mood", "emotion")

	require.Contains(t, out, "Progressive Muscle Relaxation")
	require.Contains(t, out, "10 min")
}

func TestRecommendCommandFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	out := runRecommend(t, "--server", url, "--mood", "focus")

	require.Contains(t, out, "4-7-8 Breathing")
	require.Contains(t, out, "Five Senses Check-in")
}

func TestRecommendCommandRejectsUnknownMood(t *testing.T) {
	app := newApp()
	app.Writer = io.Discard

	err := app.Run([]string{"recharge", "recommend", "--mood", "sleepy"})
	require.ErrorContains(t, err, "unknown mood")
}
