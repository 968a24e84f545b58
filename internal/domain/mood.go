package domain

type Mood string

const (
	MoodFocus    Mood = "focus"
	MoodEmotion  Mood = "emotion"
	MoodRecharge Mood = "recharge"
)

// ParseMood maps a query value to a mood. Unrecognized or empty values
// fall back to MoodRecharge and report false.
func ParseMood(s string) (Mood, bool) {
	switch m := Mood(s); m {
	case MoodFocus, MoodEmotion, MoodRecharge:
		return m, true
	default:
		return MoodRecharge, false
	}
}

// Categories returns the categories a mood recommends from. A nil
// result means every category.
func (m Mood) Categories() []Category {
	switch m {
	case MoodFocus:
		return []Category{CategoryBreathing, CategorySensoryStimulation}
	case MoodEmotion:
		return []Category{CategoryBodyRelaxation, CategoryMicroMeditation}
	default:
		return nil
	}
}
