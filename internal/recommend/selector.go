// Package recommend picks a few exercises for a mood.
package recommend

import (
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/hperssn/recharge/internal/domain"
)

const DefaultLimit = 3

// Selector shuffles the eligible part of a catalog and keeps the first
// Limit entries. It is safe for concurrent use.
type Selector struct {
	mu    sync.Mutex
	rng   *rand.Rand
	limit int
}

func NewSelector(limit int, r *rand.Rand) *Selector {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Selector{rng: r, limit: limit}
}

// Eligible returns the public catalog entries a mood may recommend, in
// catalog order.
func Eligible(mood domain.Mood, catalog []domain.Exercise) []domain.Exercise {
	allowed := mood.Categories()

	var out []domain.Exercise
	for _, e := range catalog {
		if !e.IsPublic {
			continue
		}
		if allowed != nil && !slices.Contains(allowed, e.Category) {
			continue
		}
		out = append(out, e)
	}

	return out
}

// Recommend returns at most Limit summaries drawn uniformly from the
// eligible entries. Fewer eligible entries are returned as they are.
func (s *Selector) Recommend(mood domain.Mood, catalog []domain.Exercise) []domain.Summary {
	candidates := Eligible(mood, catalog)

	s.mu.Lock()
	s.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	s.mu.Unlock()

	if len(candidates) > s.limit {
		candidates = candidates[:s.limit]
	}

	return domain.Summaries(candidates)
}
