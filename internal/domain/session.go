package domain

import (
	"time"

	"github.com/google/uuid"
)

type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StatePaused   State = "paused"
	StateComplete State = "complete"
)

// Session is one run-through of an exercise. It owns a snapshot of the
// exercise and is not safe for concurrent use; the runner serializes
// access.
type Session struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	Exercise     Exercise   `json:"exercise"`
	RemainingSec int        `json:"remainingSec"`
	State        State      `json:"state"`
	CurrentIdx   int        `json:"currentStep"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt"`
}

func NewSession(id string, userID string, e Exercise) *Session {
	if id == "" {
		id = uuid.New().String()
	}

	return &Session{
		ID:           id,
		UserID:       userID,
		Exercise:     e.Clone(),
		RemainingSec: max(e.DurationSec(), 0),
		State:        StateIdle,
		CurrentIdx:   0,
		StartedAt:    time.Now(),
	}
}

func (s *Session) Running() bool {
	return s.State == StateRunning
}

func (s *Session) Complete() bool {
	return s.State == StateComplete
}

// Toggle flips between running and paused. It has no effect once the
// session is complete.
func (s *Session) Toggle() {
	switch s.State {
	case StateRunning:
		s.State = StatePaused
	case StateIdle, StatePaused:
		s.State = StateRunning
	}
}

// Tick consumes one second while running and reports whether this tick
// completed the session. Ticks outside the running state are ignored.
func (s *Session) Tick(now time.Time) bool {
	if s.State != StateRunning {
		return false
	}

	if s.RemainingSec > 0 {
		s.RemainingSec--
	}

	if s.RemainingSec > 0 {
		return false
	}

	s.RemainingSec = 0
	s.State = StateComplete
	s.CompletedAt = &now

	return true
}

// Reset restores the full duration and the first step and leaves the
// session paused. A complete session can be reset to start over.
func (s *Session) Reset() {
	s.RemainingSec = max(s.Exercise.DurationSec(), 0)
	s.CurrentIdx = 0
	s.State = StatePaused
	s.CompletedAt = nil
}

// Clone returns a deep copy safe to hand out to other goroutines.
func (s *Session) Clone() *Session {
	c := *s
	c.Exercise = s.Exercise.Clone()
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
