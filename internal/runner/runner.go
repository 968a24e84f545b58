package runner

import (
	"context"
	"sync"
	"time"

	"github.com/hperssn/recharge/internal/domain"
)

const (
	DefaultTickInterval = time.Second

	subscriberBuffer = 16
)

// Event carries a session snapshot after every tick or user action.
type Event struct {
	Session *domain.Session
}

// sessionRunner drives one session. A ticker goroutine exists only while
// the session is running; pausing, completing, resetting and stopping all
// cancel it.
type sessionRunner struct {
	mu sync.Mutex

	session  *domain.Session
	interval time.Duration
	cancel   context.CancelFunc
	stopped  bool

	subscribers map[chan Event]struct{}
	onComplete  func(*domain.Session)
	// recorded is closed once the latest completion has been passed to
	// onComplete. nil until the session first completes.
	recorded chan struct{}
}

func NewSessionRunner(s *domain.Session, interval time.Duration, onComplete func(*domain.Session)) *sessionRunner {
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	return &sessionRunner{
		session:     s,
		interval:    interval,
		subscribers: make(map[chan Event]struct{}),
		onComplete:  onComplete,
	}
}

// Toggle starts or pauses the countdown.
func (r *sessionRunner) Toggle() *domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return r.session.Clone()
	}

	r.session.Toggle()
	if r.session.Running() {
		r.startTicking()
	} else {
		r.stopTicking()
	}

	return r.publish()
}

func (r *sessionRunner) Reset() *domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return r.session.Clone()
	}

	r.stopTicking()
	r.session.Reset()

	return r.publish()
}

func (r *sessionRunner) NextStep() *domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.session.NextStep()
	return r.publish()
}

func (r *sessionRunner) PrevStep() *domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.session.PrevStep()
	return r.publish()
}

// Stop tears the runner down: the ticker is cancelled and every
// subscription closed. Further actions are ignored.
func (r *sessionRunner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}

	r.stopTicking()
	r.stopped = true

	for ch := range r.subscribers {
		close(ch)
	}
	clear(r.subscribers)
}

// Subscribe returns the current snapshot and a channel receiving every
// later one. The channel is closed by cancel or when the runner stops.
// A subscriber that falls behind loses its oldest events first.
func (r *sessionRunner) Subscribe() (*domain.Session, <-chan Event, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if r.stopped {
		close(ch)
		return r.session.Clone(), ch, func() {}
	}

	r.subscribers[ch] = struct{}{}

	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		if _, ok := r.subscribers[ch]; ok {
			delete(r.subscribers, ch)
			close(ch)
		}
	}

	return r.session.Clone(), ch, cancel
}

func (r *sessionRunner) Session() *domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.session.Clone()
}

// waitRecorded blocks until the latest completion, if any, has been
// recorded.
func (r *sessionRunner) waitRecorded(ctx context.Context) error {
	r.mu.Lock()
	recorded := r.recorded
	r.mu.Unlock()

	if recorded == nil {
		return nil
	}

	select {
	case <-recorded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// startTicking and stopTicking must be called with r.mu held.
func (r *sessionRunner) startTicking() {
	if r.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	go r.loop(ctx)
}

func (r *sessionRunner) stopTicking() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *sessionRunner) loop(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			r.mu.Lock()
			// A pause or reset may have won the race for the lock.
			if ctx.Err() != nil {
				r.mu.Unlock()
				return
			}

			if !r.session.Tick(now) {
				r.publish()
				r.mu.Unlock()
				continue
			}

			r.stopTicking()
			snapshot := r.session.Clone()
			recorded := make(chan struct{})
			r.recorded = recorded
			r.mu.Unlock()

			r.complete(snapshot, recorded)
			return

		case <-ctx.Done():
			return
		}
	}
}

// complete records a finished session outside the lock, then announces
// it. The announcement carries the current state, which a reset during
// the write may already have changed.
func (r *sessionRunner) complete(snapshot *domain.Session, recorded chan struct{}) {
	if r.onComplete != nil {
		r.onComplete(snapshot)
	}
	close(recorded)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.publish()
}

// publish must be called with r.mu held. The returned snapshot is shared
// with every event and must be treated as read-only.
func (r *sessionRunner) publish() *domain.Session {
	snapshot := r.session.Clone()
	if r.stopped {
		return snapshot
	}

	ev := Event{Session: snapshot}
	for ch := range r.subscribers {
		select {
		case ch <- ev:
			continue
		default:
		}

		// Full: drop the oldest so the newest state always arrives.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- ev:
		default:
		}
	}

	return snapshot
}
