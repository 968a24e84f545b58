package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hperssn/recharge/internal/domain"
)

type backend struct {
	name string
	open func(t *testing.T) Repository
}

func backends() []backend {
	return []backend{
		{
			name: "memory",
			open: func(t *testing.T) Repository { return NewMemoryRepository() },
		},
		{
			name: "bolt",
			open: func(t *testing.T) Repository {
				r, err := NewBoltRepository(filepath.Join(t.TempDir(), "recharge.bolt"))
				require.NoError(t, err)
				return r
			},
		},
		{
			name: "sqlite",
			open: func(t *testing.T) Repository {
				r, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "recharge.db"))
				require.NoError(t, err)
				return r
			},
		},
		{
			name: "postgres",
			open: func(t *testing.T) Repository {
				dsn := os.Getenv("RECHARGE_TEST_POSTGRES_DSN")
				if dsn == "" {
					t.Skip("RECHARGE_TEST_POSTGRES_DSN not set")
				}
				r, err := NewPostgresRepository(dsn)
				require.NoError(t, err)
				_, err = r.db.Exec(`TRUNCATE exercises, completions`)
				require.NoError(t, err)
				return r
			},
		},
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, r Repository)) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			r := b.open(t)
			t.Cleanup(func() { r.Close() })
			fn(t, r)
		})
	}
}

func exerciseIDs(exercises []domain.Exercise) []string {
	out := make([]string, 0, len(exercises))
	for _, e := range exercises {
		out = append(out, e.ID)
	}
	return out
}

func TestSeedAndList(t *testing.T) {
	forEachBackend(t, func(t *testing.T, r Repository) {
		ctx := context.Background()

		n, err := Seed(ctx, r)
		require.NoError(t, err)
		require.Equal(t, 5, n)

		n, err = Seed(ctx, r)
		require.NoError(t, err)
		require.Zero(t, n, "seeding twice should be a no-op")

		all, err := r.ListExercises(ctx, Filter{PublicOnly: true})
		require.NoError(t, err)
		require.Equal(t, []string{"1", "2", "3", "4", "5"}, exerciseIDs(all))

		breathing, err := r.ListExercises(ctx, Filter{Category: domain.CategoryBreathing})
		require.NoError(t, err)
		require.Equal(t, []string{"1"}, exerciseIDs(breathing))

		first := all[0]
		require.Equal(t, "4-7-8 Breathing", first.Title)
		require.Equal(t, 3, first.Duration)
		require.Len(t, first.Steps, 6)
		require.Equal(t, []string{"stress relief", "before sleep", "quick relaxation"}, first.Tags)
		require.Equal(t, SystemCreator, first.CreatorID)
		require.Nil(t, first.ImageURL)
	})
}

func TestCreateAndGetExercise(t *testing.T) {
	forEachBackend(t, func(t *testing.T, r Repository) {
		ctx := context.Background()
		img := "https://example.com/box.png"

		created, err := r.CreateExercise(ctx, domain.Exercise{
			Title:       "Box Breathing",
			Description: "Square breaths",
			Duration:    4,
			Steps:       []string{"in", "hold", "out", "hold"},
			Category:    domain.CategoryBreathing,
			Tags:        []string{"calm"},
			IsPublic:    false,
			CreatorID:   "u1",
			ImageURL:    &img,
		})
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)

		got, err := r.GetExercise(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, created.Title, got.Title)
		require.Equal(t, created.Steps, got.Steps)
		require.Equal(t, created.Tags, got.Tags)
		require.False(t, got.IsPublic)
		require.Equal(t, "u1", got.CreatorID)
		require.NotNil(t, got.ImageURL)
		require.Equal(t, img, *got.ImageURL)

		public, err := r.ListExercises(ctx, Filter{PublicOnly: true})
		require.NoError(t, err)
		require.NotContains(t, exerciseIDs(public), created.ID)

		all, err := r.ListExercises(ctx, Filter{})
		require.NoError(t, err)
		require.Contains(t, exerciseIDs(all), created.ID)
	})
}

func TestListKeepsInsertionOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, r Repository) {
		ctx := context.Background()

		for _, id := range []string{"c", "a", "b"} {
			_, err := r.CreateExercise(ctx, domain.Exercise{
				ID: id, Title: id, Description: id, Duration: 1,
				Steps: []string{"s"}, Category: domain.CategoryBreathing, IsPublic: true,
			})
			require.NoError(t, err)
		}

		all, err := r.ListExercises(ctx, Filter{})
		require.NoError(t, err)
		require.Equal(t, []string{"c", "a", "b"}, exerciseIDs(all))
	})
}

func TestGetExerciseNotFound(t *testing.T) {
	forEachBackend(t, func(t *testing.T, r Repository) {
		_, err := r.GetExercise(context.Background(), "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func completion(id, sessionID, userID string, minutes int, at time.Time) *CompletionRecord {
	return &CompletionRecord{
		ID:            id,
		SessionID:     sessionID,
		UserID:        userID,
		ExerciseID:    "1",
		ExerciseTitle: "4-7-8 Breathing",
		DurationMin:   minutes,
		StartedAt:     at.Add(-time.Duration(minutes) * time.Minute),
		CompletedAt:   at,
	}
}

func TestCompletionHistory(t *testing.T) {
	forEachBackend(t, func(t *testing.T, r Repository) {
		ctx := context.Background()
		base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

		require.NoError(t, r.SaveCompletion(ctx, completion("c1", "s1", "u1", 3, base)))
		require.NoError(t, r.SaveCompletion(ctx, completion("c2", "s2", "u1", 10, base.Add(time.Hour))))
		require.NoError(t, r.SaveCompletion(ctx, completion("c3", "s3", "u2", 5, base)))

		records, err := r.CompletionsByUser(ctx, "u1", 0)
		require.NoError(t, err)
		require.Len(t, records, 2)
		require.Equal(t, "c2", records[0].ID, "newest first")
		require.Equal(t, "c1", records[1].ID)
		require.True(t, records[0].CompletedAt.Equal(base.Add(time.Hour)))
		require.Nil(t, records[0].Rating)

		limited, err := r.CompletionsByUser(ctx, "u1", 1)
		require.NoError(t, err)
		require.Len(t, limited, 1)

		require.NoError(t, r.RateCompletion(ctx, "s1", 4))
		require.ErrorIs(t, r.RateCompletion(ctx, "nope", 4), ErrCompletionNotFound)

		stats, err := r.CompletionStats(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, 2, stats.TotalSessions)
		require.Equal(t, 13, stats.TotalMinutes)
		require.Equal(t, 1, stats.RatedSessions)
		require.InDelta(t, 4.0, stats.AverageRating, 0.001)

		empty, err := r.CompletionStats(ctx, "nobody")
		require.NoError(t, err)
		require.Zero(t, empty.TotalSessions)
		require.Zero(t, empty.AverageRating)
	})
}

func TestRateCompletionTargetsLatest(t *testing.T) {
	forEachBackend(t, func(t *testing.T, r Repository) {
		ctx := context.Background()
		base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

		require.NoError(t, r.SaveCompletion(ctx, completion("old", "s1", "u1", 3, base)))
		require.NoError(t, r.SaveCompletion(ctx, completion("new", "s1", "u1", 3, base.Add(10*time.Minute))))

		require.NoError(t, r.RateCompletion(ctx, "s1", 5))

		records, err := r.CompletionsByUser(ctx, "u1", 0)
		require.NoError(t, err)
		require.Len(t, records, 2)
		require.Equal(t, "new", records[0].ID)
		require.NotNil(t, records[0].Rating)
		require.Equal(t, 5, *records[0].Rating)
		require.Nil(t, records[1].Rating)
	})
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("mongo", "", "")
	require.Error(t, err)
}

func TestDollarPlaceholders(t *testing.T) {
	got := dollarPlaceholders(`SELECT a FROM t WHERE b = ? AND c = ?`)
	require.Equal(t, `SELECT a FROM t WHERE b = $1 AND c = $2`, got)
}
