package storage

import (
	"context"
	"fmt"

	"github.com/hperssn/recharge/internal/domain"
)

const SystemCreator = "system"

// SeedExercises returns the built-in catalog.
func SeedExercises() []domain.Exercise {
	return []domain.Exercise{
		{
			ID:          "1",
			Title:       "4-7-8 Breathing",
			Description: "Calm body and mind quickly by changing your breathing rhythm. Good for anxious or stressful moments.",
			Duration:    3,
			Steps: []string{
				"Sit down in a comfortable position",
				"Close your eyes and rest the tip of your tongue on the roof of your mouth",
				"Inhale through your nose for 4 seconds",
				"Hold your breath for 7 seconds",
				`Exhale through your mouth for 8 seconds with a "whoosh" sound`,
				"Repeat the cycle 4 times",
			},
			Category: domain.CategoryBreathing,
			Tags:     []string{"stress relief", "before sleep", "quick relaxation"},
		},
		{
			ID:          "2",
			Title:       "Progressive Muscle Relaxation",
			Description: "Tense and release one muscle group at a time to let go of physical tension.",
			Duration:    10,
			Steps: []string{
				"Sit or lie down somewhere quiet and comfortable",
				"Start with your feet: curl your toes for 5 seconds, then release completely",
				"Move up to your calves and thighs",
				"Tense and release your abdomen, chest, arms, shoulders and face in turn",
				"Repeat the tense-release cycle for each area",
			},
			Category: domain.CategoryBodyRelaxation,
			Tags:     []string{"fatigue relief", "before sleep", "full body"},
		},
		{
			ID:          "3",
			Title:       "Five Senses Check-in",
			Description: "Reconnect with the present by noticing each of your five senses. Useful when your mind wanders.",
			Duration:    5,
			Steps: []string{
				"Find a comfortable place to sit",
				"Name 5 things you can see",
				"Name 4 sounds you can hear",
				"Name 3 textures you can touch",
				"Name 2 smells you can notice",
				"Name 1 thing you can taste",
			},
			Category: domain.CategorySensoryStimulation,
			Tags:     []string{"focus boost", "anxiety relief", "meditation basics"},
		},
		{
			ID:          "4",
			Title:       "Finger Breathing Focus",
			Description: "Trace your fingers to pace your breathing and gather your attention.",
			Duration:    3,
			Steps: []string{
				"Hold out your left hand, palm facing you",
				"Inhale as your right index finger slides up your left thumb",
				"Exhale as it slides back down",
				"Repeat along every finger",
				"Switch hands after all five fingers",
			},
			Category: domain.CategoryMicroMeditation,
			Tags:     []string{"before meetings", "quick recharge", "focus recovery"},
		},
		{
			ID:          "5",
			Title:       "Quick Mind Switch",
			Description: "A small word game that flips your thinking mode when work gets tiring.",
			Duration:    2,
			Steps: []string{
				"Write down a common word",
				"Write a new word starting with the last letter of that word",
				"Keep chaining words the same way",
				"Try to write as many as you can in 2 minutes",
			},
			Category: domain.CategoryLightEntertainment,
			Tags:     []string{"creativity", "mode switch", "work break"},
		},
	}
}

// Seed fills an empty catalog with the built-in exercises and returns how
// many were added. A catalog that already has entries is left alone.
func Seed(ctx context.Context, c Catalog) (int, error) {
	existing, err := c.ListExercises(ctx, Filter{})
	if err != nil {
		return 0, fmt.Errorf("seed: list: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	exercises := SeedExercises()
	for _, e := range exercises {
		e.IsPublic = true
		e.CreatorID = SystemCreator
		if _, err := c.CreateExercise(ctx, e); err != nil {
			return 0, fmt.Errorf("seed %q: %w", e.ID, err)
		}
	}

	return len(exercises), nil
}
