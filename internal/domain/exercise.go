package domain

import "slices"

type Category string

const (
	CategoryBreathing          Category = "breathing"
	CategoryBodyRelaxation     Category = "body-relaxation"
	CategorySensoryStimulation Category = "sensory-stimulation"
	CategoryMicroMeditation    Category = "micro-meditation"
	CategoryLightEntertainment Category = "light-entertainment"
)

var categories = []Category{
	CategoryBreathing,
	CategoryBodyRelaxation,
	CategorySensoryStimulation,
	CategoryMicroMeditation,
	CategoryLightEntertainment,
}

func Categories() []Category {
	return slices.Clone(categories)
}

func (c Category) Valid() bool {
	return slices.Contains(categories, c)
}

// Exercise is a catalog entry. Duration is in minutes.
type Exercise struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    int      `json:"duration"`
	Steps       []string `json:"steps"`
	Category    Category `json:"category"`
	Tags        []string `json:"tags"`
	IsPublic    bool     `json:"isPublic"`
	CreatorID   string   `json:"creatorId"`
	ImageURL    *string  `json:"imageUrl"`
	AudioURL    *string  `json:"audioUrl"`
}

// Summary is the list and recommendation shape of an exercise.
type Summary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    int      `json:"duration"`
	Category    Category `json:"category"`
	ImageURL    *string  `json:"imageUrl"`
}

func (e Exercise) Summary() Summary {
	return Summary{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Duration:    e.Duration,
		Category:    e.Category,
		ImageURL:    e.ImageURL,
	}
}

func (e Exercise) DurationSec() int {
	return e.Duration * 60
}

// Clone returns a copy that shares no slices or pointers with e.
func (e Exercise) Clone() Exercise {
	c := e
	c.Steps = slices.Clone(e.Steps)
	c.Tags = slices.Clone(e.Tags)
	if e.ImageURL != nil {
		u := *e.ImageURL
		c.ImageURL = &u
	}
	if e.AudioURL != nil {
		u := *e.AudioURL
		c.AudioURL = &u
	}
	return c
}

func Summaries(exercises []Exercise) []Summary {
	out := make([]Summary, 0, len(exercises))
	for _, e := range exercises {
		out = append(out, e.Summary())
	}
	return out
}
