package storage

import (
	"context"
	"errors"

	"github.com/hperssn/recharge/internal/domain"
)

var ErrCompletionNotFound = errors.New("completion not found")

// Filter narrows ListExercises. Zero values match everything.
type Filter struct {
	Category   domain.Category
	PublicOnly bool
}

func (f Filter) match(e domain.Exercise) bool {
	if f.PublicOnly && !e.IsPublic {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	return true
}

// Catalog stores exercises in insertion order.
type Catalog interface {
	ListExercises(ctx context.Context, f Filter) ([]domain.Exercise, error)

	// GetExercise returns domain.ErrNotFound for unknown ids.
	GetExercise(ctx context.Context, id string) (domain.Exercise, error)

	// CreateExercise stores e, assigning an id when e.ID is empty.
	CreateExercise(ctx context.Context, e domain.Exercise) (domain.Exercise, error)
}

// History stores finished sessions.
type History interface {
	SaveCompletion(ctx context.Context, record *CompletionRecord) error

	// RateCompletion rates the latest completion of a session.
	RateCompletion(ctx context.Context, sessionID string, rating int) error

	CompletionsByUser(ctx context.Context, userID string, limit int) ([]CompletionRecord, error)

	CompletionStats(ctx context.Context, userID string) (*CompletionStats, error)
}

type Repository interface {
	Catalog
	History

	Close() error
}

type CompletionStats struct {
	TotalSessions int     `json:"totalSessions"`
	TotalMinutes  int     `json:"totalMinutes"`
	RatedSessions int     `json:"ratedSessions"`
	AverageRating float64 `json:"averageRating"`
}
