package httpapi

import (
	"encoding/json"
	"net/http"
)

// streamSessionEvents sends a snapshot of the session for every tick or
// action until the client leaves or the session is stopped.
func (s *Server) streamSessionEvents(w http.ResponseWriter, r *http.Request) {
	session, ok := s.ownedSession(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	current, events, unsubscribe, err := s.sessions.Subscribe(session.ID)
	if err != nil {
		s.respondError(w, "Session not found", http.StatusNotFound)
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	writeEvent := func(v any) bool {
		data, err := json.Marshal(v)
		if err != nil {
			s.log.Error("encoding session event", "error", err)
			return false
		}
		w.Write([]byte("data: "))
		w.Write(data)
		w.Write([]byte("\n\n"))
		flusher.Flush()
		return true
	}

	if !writeEvent(newSessionResponse(current)) {
		return
	}

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !writeEvent(newSessionResponse(ev.Session)) {
				return
			}

		case <-r.Context().Done():
			return
		}
	}
}
