package recommend

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hperssn/recharge/internal/domain"
)

func exercise(id string, c domain.Category, public bool) domain.Exercise {
	return domain.Exercise{ID: id, Title: "t" + id, Duration: 3, Category: c, IsPublic: public, Steps: []string{"s"}}
}

func catalog() []domain.Exercise {
	return []domain.Exercise{
		exercise("1", domain.CategoryBreathing, true),
		exercise("2", domain.CategoryBodyRelaxation, true),
		exercise("3", domain.CategorySensoryStimulation, true),
		exercise("4", domain.CategoryMicroMeditation, true),
		exercise("5", domain.CategoryLightEntertainment, true),
		exercise("6", domain.CategoryBreathing, false),
		exercise("7", domain.CategoryBreathing, true),
		exercise("8", domain.CategoryBodyRelaxation, false),
	}
}

func ids(summaries []domain.Summary) []string {
	out := make([]string, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, s.ID)
	}
	return out
}

func TestEligible(t *testing.T) {
	tests := []struct {
		mood domain.Mood
		want []string
	}{
		{domain.MoodFocus, []string{"1", "3", "7"}},
		{domain.MoodEmotion, []string{"2", "4"}},
		{domain.MoodRecharge, []string{"1", "2", "3", "4", "5", "7"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mood), func(t *testing.T) {
			got := Eligible(tt.mood, catalog())
			require.Equal(t, tt.want, ids(domain.Summaries(got)))
		})
	}
}

func TestRecommendDrawsFromEligible(t *testing.T) {
	s := NewSelector(3, rand.New(rand.NewSource(7)))

	for _, mood := range []domain.Mood{domain.MoodFocus, domain.MoodEmotion, domain.MoodRecharge} {
		eligible := ids(domain.Summaries(Eligible(mood, catalog())))

		for i := 0; i < 50; i++ {
			got := ids(s.Recommend(mood, catalog()))

			require.LessOrEqual(t, len(got), 3)
			require.Len(t, got, min(3, len(eligible)))
			for _, id := range got {
				require.Contains(t, eligible, id, "mood %s", mood)
			}
		}
	}
}

func TestRecommendReturnsAllWhenFewEligible(t *testing.T) {
	s := NewSelector(3, rand.New(rand.NewSource(1)))

	got := ids(s.Recommend(domain.MoodEmotion, catalog()))

	require.ElementsMatch(t, []string{"2", "4"}, got)
}

func TestRecommendSingleBreathingEntry(t *testing.T) {
	s := NewSelector(3, nil)
	one := []domain.Exercise{exercise("1", domain.CategoryBreathing, true)}

	got := s.Recommend(domain.MoodFocus, one)

	require.Len(t, got, 1)
	require.Equal(t, "1", got[0].ID)
	require.Equal(t, 3, got[0].Duration)
}

func TestRecommendEventuallyCoversEveryCandidate(t *testing.T) {
	s := NewSelector(3, rand.New(rand.NewSource(42)))

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		for _, id := range ids(s.Recommend(domain.MoodRecharge, catalog())) {
			seen[id] = true
		}
	}

	require.Len(t, seen, 6)
	require.False(t, seen["6"])
	require.False(t, seen["8"])
}

func TestRecommendDoesNotReorderCatalog(t *testing.T) {
	s := NewSelector(3, rand.New(rand.NewSource(3)))
	c := catalog()

	s.Recommend(domain.MoodRecharge, c)

	require.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8"}, ids(domain.Summaries(c)))
}

func TestRecommendEmptyCatalog(t *testing.T) {
	s := NewSelector(0, nil)

	got := s.Recommend(domain.MoodFocus, nil)

	require.Empty(t, got)
	require.NotNil(t, got)
}
