package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// CreateRequest is the body of a create call. Duration, steps and tags
// stay raw because clients send them in more than one shape.
type CreateRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Duration    json.RawMessage `json:"duration"`
	Category    string          `json:"category"`
	Steps       json.RawMessage `json:"steps"`
	Tags        json.RawMessage `json:"tags"`
	IsPublic    bool            `json:"isPublic"`
}

// Exercise validates the request and builds an exercise without id or
// creator. Presence is checked in order: title, description, duration,
// category, steps.
func (r CreateRequest) Exercise() (Exercise, error) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return Exercise{}, missingField("title")
	}

	description := strings.TrimSpace(r.Description)
	if description == "" {
		return Exercise{}, missingField("description")
	}

	duration, err := parseDuration(r.Duration)
	if err != nil {
		return Exercise{}, err
	}

	category := Category(strings.TrimSpace(r.Category))
	if category == "" {
		return Exercise{}, missingField("category")
	}

	steps, err := parseSteps(r.Steps)
	if err != nil {
		return Exercise{}, err
	}

	if !category.Valid() {
		return Exercise{}, invalidField("category")
	}

	return Exercise{
		Title:       title,
		Description: description,
		Duration:    duration,
		Category:    category,
		Steps:       steps,
		Tags:        parseTags(r.Tags),
		IsPublic:    r.IsPublic,
	}, nil
}

func isAbsent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// MaxDuration is the longest exercise accepted, in minutes.
const MaxDuration = 24 * 60

// parseDuration accepts a JSON number or a numeric string.
func parseDuration(raw json.RawMessage) (int, error) {
	if isAbsent(raw) {
		return 0, missingField("duration")
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, invalidField("duration")
		}

		s = strings.TrimSpace(s)
		if s == "" {
			return 0, missingField("duration")
		}

		n, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, invalidField("duration")
		}
	}

	if n == 0 {
		return 0, missingField("duration")
	}

	if n < 1 || n > MaxDuration {
		return 0, invalidField("duration")
	}

	return int(n), nil
}

func parseSteps(raw json.RawMessage) ([]string, error) {
	if isAbsent(raw) {
		return nil, missingField("steps")
	}

	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, missingField("steps")
	}

	steps := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			steps = append(steps, v)
		}
	}

	if len(steps) == 0 {
		return nil, missingField("steps")
	}

	return steps, nil
}

// parseTags accepts a list of strings or a comma separated string. Any
// other shape yields no tags.
func parseTags(raw json.RawMessage) []string {
	if isAbsent(raw) {
		return []string{}
	}

	var values []string
	if err := json.Unmarshal(raw, &values); err == nil {
		return NormalizeTags(values)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return NormalizeTags(strings.Split(s, ","))
	}

	return []string{}
}

// NormalizeTags trims every tag, drops empty ones and keeps the first
// occurrence of duplicates.
func NormalizeTags(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	tags := make([]string, 0, len(values))

	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		tags = append(tags, v)
	}

	return tags
}
