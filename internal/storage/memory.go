package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/hperssn/recharge/internal/domain"
)

// MemoryRepository keeps everything in ordered slices. It is the default
// backend and the one tests use.
type MemoryRepository struct {
	mu          sync.RWMutex
	exercises   []domain.Exercise
	completions []CompletionRecord
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) ListExercises(_ context.Context, f Filter) ([]domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Exercise, 0, len(r.exercises))
	for _, e := range r.exercises {
		if f.match(e) {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

func (r *MemoryRepository) GetExercise(_ context.Context, id string) (domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.exercises {
		if e.ID == id {
			return e.Clone(), nil
		}
	}
	return domain.Exercise{}, domain.ErrNotFound
}

func (r *MemoryRepository) CreateExercise(_ context.Context, e domain.Exercise) (domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	r.exercises = append(r.exercises, e.Clone())
	return e, nil
}

func (r *MemoryRepository) SaveCompletion(_ context.Context, record *CompletionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.completions = append(r.completions, *record)
	return nil
}

func (r *MemoryRepository) RateCompletion(_ context.Context, sessionID string, rating int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	latest := -1
	for i, c := range r.completions {
		if c.SessionID != sessionID {
			continue
		}
		if latest < 0 || !c.CompletedAt.Before(r.completions[latest].CompletedAt) {
			latest = i
		}
	}
	if latest < 0 {
		return ErrCompletionNotFound
	}

	r.completions[latest].Rating = &rating
	return nil
}

func (r *MemoryRepository) CompletionsByUser(_ context.Context, userID string, limit int) ([]CompletionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return newestFirst(r.completions, userID, limit), nil
}

func (r *MemoryRepository) CompletionStats(_ context.Context, userID string) (*CompletionStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return statsOf(newestFirst(r.completions, userID, 0)), nil
}

func (r *MemoryRepository) Close() error {
	return nil
}

// newestFirst returns copies of the user's records sorted by completion
// time, newest first. A limit <= 0 keeps all of them.
func newestFirst(all []CompletionRecord, userID string, limit int) []CompletionRecord {
	out := make([]CompletionRecord, 0)
	for _, c := range all {
		if c.UserID == userID {
			out = append(out, c)
		}
	}

	slices.SortStableFunc(out, func(a, b CompletionRecord) int {
		return b.CompletedAt.Compare(a.CompletedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
