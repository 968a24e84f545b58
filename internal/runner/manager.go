package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hperssn/recharge/internal/domain"
	"github.com/hperssn/recharge/internal/storage"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotComplete     = errors.New("session not complete")
	ErrInvalidRating   = errors.New("invalid rating")
)

type Options struct {
	TickInterval    time.Duration
	Retention       time.Duration
	CleanupInterval time.Duration
}

// SessionManager owns every live session. Each user has at most one
// active session; starting another replaces it.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*sessionRunner
	active   map[string]string

	history storage.History
	log     *slog.Logger
	opts    Options

	cancel context.CancelFunc
	done   chan struct{}
}

func NewSessionManager(history storage.History, log *slog.Logger, opts Options) *SessionManager {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Retention <= 0 {
		opts.Retention = time.Hour
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = 5 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &SessionManager{
		sessions: make(map[string]*sessionRunner),
		active:   make(map[string]string),
		history:  history,
		log:      log,
		opts:     opts,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go m.cleanupLoop(ctx)

	return m
}

func (m *SessionManager) cleanupLoop(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			m.cleanupOldSessions(now)
		case <-ctx.Done():
			return
		}
	}
}

// cleanupOldSessions drops sessions that are not running and were
// started before the retention window.
func (m *SessionManager) cleanupOldSessions(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := now.Add(-m.opts.Retention)
	removed := 0

	for _, r := range m.sessions {
		sess := r.Session()
		if sess.Running() || !sess.StartedAt.Before(cutoff) {
			continue
		}

		r.Stop()
		m.remove(sess)
		removed++
	}

	if removed > 0 {
		m.log.Debug("cleaned up sessions", "count", removed)
	}

	return removed
}

// remove must be called with m.mu held.
func (m *SessionManager) remove(s *domain.Session) {
	delete(m.sessions, s.ID)
	if m.active[s.UserID] == s.ID {
		delete(m.active, s.UserID)
	}
}

// Close stops every session and the cleanup loop.
func (m *SessionManager) Close() {
	m.cancel()
	<-m.done

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.sessions {
		r.Stop()
	}
	clear(m.sessions)
	clear(m.active)
}

// Start creates an idle session for e and makes it the user's active
// session.
func (m *SessionManager) Start(userID string, e domain.Exercise) *domain.Session {
	s := domain.NewSession("", userID, e)
	r := NewSessionRunner(s, m.opts.TickInterval, m.recordCompletion)

	m.mu.Lock()
	defer m.mu.Unlock()

	if prevID, ok := m.active[userID]; ok {
		if prev, ok := m.sessions[prevID]; ok {
			prev.Stop()
			delete(m.sessions, prevID)
			m.log.Info("replaced active session", "user", userID, "previous", prevID)
		}
	}

	m.sessions[s.ID] = r
	m.active[userID] = s.ID

	m.log.Info("session started", "session", s.ID, "user", userID, "exercise", e.ID)

	return r.Session()
}

func (m *SessionManager) recordCompletion(s *domain.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.history.SaveCompletion(ctx, storage.FromSession(s)); err != nil {
		m.log.Error("failed to save completion", "session", s.ID, "error", err)
		return
	}

	m.log.Info("session complete", "session", s.ID, "user", s.UserID, "minutes", s.Exercise.Duration)
}

func (m *SessionManager) runner(id string) (*sessionRunner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return r, nil
}

func (m *SessionManager) GetSession(id string) (*domain.Session, bool) {
	r, err := m.runner(id)
	if err != nil {
		return nil, false
	}
	return r.Session(), true
}

// ActiveSession returns the user's current session, if any.
func (m *SessionManager) ActiveSession(userID string) (*domain.Session, bool) {
	m.mu.Lock()
	id, ok := m.active[userID]
	m.mu.Unlock()

	if !ok {
		return nil, false
	}
	return m.GetSession(id)
}

// Subscribe returns the session's current snapshot and a channel of its
// later events. cancel must be called once the caller stops reading.
func (m *SessionManager) Subscribe(id string) (current *domain.Session, events <-chan Event, cancel func(), err error) {
	r, err := m.runner(id)
	if err != nil {
		return nil, nil, nil, err
	}

	current, events, cancel = r.Subscribe()
	return current, events, cancel, nil
}

func (m *SessionManager) Toggle(id string) (*domain.Session, error) {
	r, err := m.runner(id)
	if err != nil {
		return nil, err
	}
	return r.Toggle(), nil
}

func (m *SessionManager) Reset(id string) (*domain.Session, error) {
	r, err := m.runner(id)
	if err != nil {
		return nil, err
	}
	return r.Reset(), nil
}

func (m *SessionManager) NextStep(id string) (*domain.Session, error) {
	r, err := m.runner(id)
	if err != nil {
		return nil, err
	}
	return r.NextStep(), nil
}

func (m *SessionManager) PrevStep(id string) (*domain.Session, error) {
	r, err := m.runner(id)
	if err != nil {
		return nil, err
	}
	return r.PrevStep(), nil
}

// StopSession tears a session down and forgets it.
func (m *SessionManager) StopSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.sessions[id]
	if !exists {
		return ErrSessionNotFound
	}

	r.Stop()
	m.remove(r.Session())

	m.log.Info("session stopped", "session", id)
	return nil
}

// Rate stores a 1-5 rating for a complete session.
func (m *SessionManager) Rate(ctx context.Context, id string, rating int) error {
	if rating < storage.MinRating || rating > storage.MaxRating {
		return ErrInvalidRating
	}

	r, err := m.runner(id)
	if err != nil {
		return err
	}

	if !r.Session().Complete() {
		return ErrNotComplete
	}
	if err := r.waitRecorded(ctx); err != nil {
		return fmt.Errorf("rate session %s: %w", id, err)
	}

	if err := m.history.RateCompletion(ctx, id, rating); err != nil {
		return fmt.Errorf("rate session %s: %w", id, err)
	}

	return nil
}
