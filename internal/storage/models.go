package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/hperssn/recharge/internal/domain"
)

const (
	MinRating = 1
	MaxRating = 5
)

type CompletionRecord struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"sessionId"`
	UserID        string    `json:"userId"`
	ExerciseID    string    `json:"exerciseId"`
	ExerciseTitle string    `json:"exerciseTitle"`
	DurationMin   int       `json:"durationMin"`
	Rating        *int      `json:"rating"`
	StartedAt     time.Time `json:"startedAt"`
	CompletedAt   time.Time `json:"completedAt"`
}

// FromSession converts a complete session into a CompletionRecord.
func FromSession(s *domain.Session) *CompletionRecord {
	completedAt := time.Now()
	if s.CompletedAt != nil {
		completedAt = *s.CompletedAt
	}

	return &CompletionRecord{
		ID:            uuid.NewString(),
		SessionID:     s.ID,
		UserID:        s.UserID,
		ExerciseID:    s.Exercise.ID,
		ExerciseTitle: s.Exercise.Title,
		DurationMin:   s.Exercise.Duration,
		StartedAt:     s.StartedAt.UTC(),
		CompletedAt:   completedAt.UTC(),
	}
}

func statsOf(records []CompletionRecord) *CompletionStats {
	var stats CompletionStats
	ratingSum := 0

	for _, r := range records {
		stats.TotalSessions++
		stats.TotalMinutes += r.DurationMin
		if r.Rating != nil {
			stats.RatedSessions++
			ratingSum += *r.Rating
		}
	}

	if stats.RatedSessions > 0 {
		stats.AverageRating = float64(ratingSum) / float64(stats.RatedSessions)
	}

	return &stats
}
