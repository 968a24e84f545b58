// Package client talks to the recharge HTTP API. Failures that a retry or
// a fallback could paper over are reported as ErrTransient.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hperssn/recharge/internal/domain"
)

var ErrTransient = errors.New("transient fetch error")

type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

func New(baseURL string, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// FocusFallback is what the home page shows when recommendations cannot
// be fetched.
func FocusFallback() []domain.Summary {
	return []domain.Summary{
		{
			ID:          "1",
			Title:       "4-7-8 Breathing",
			Description: "Calm body and mind quickly by changing your breathing rhythm.",
			Duration:    3,
			Category:    domain.CategoryBreathing,
		},
		{
			ID:          "3",
			Title:       "Five Senses Check-in",
			Description: "Reconnect with the present by noticing each of your five senses.",
			Duration:    5,
			Category:    domain.CategorySensoryStimulation,
		},
	}
}

func (c *Client) Recommend(ctx context.Context, mood domain.Mood) ([]domain.Summary, error) {
	var out []domain.Summary
	err := c.get(ctx, "/recommend?mood="+url.QueryEscape(string(mood)), &out)
	return out, err
}

// RecommendOr returns fallback when recommendations cannot be fetched.
// Errors other than ErrTransient are returned as is.
func (c *Client) RecommendOr(ctx context.Context, mood domain.Mood, fallback []domain.Summary) ([]domain.Summary, error) {
	out, err := c.Recommend(ctx, mood)
	if errors.Is(err, ErrTransient) {
		c.log.Warn("using fallback recommendations", "mood", mood, "error", err)
		return fallback, nil
	}
	return out, err
}

// Exercise fetches an exercise; unknown ids return domain.ErrNotFound.
func (c *Client) Exercise(ctx context.Context, id string) (domain.Exercise, error) {
	var out domain.Exercise
	err := c.get(ctx, "/recharge/"+url.PathEscape(id), &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: GET %s: status %d", ErrTransient, path, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, body.Error)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrTransient, path, err)
	}

	return nil
}
