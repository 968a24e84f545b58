package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hperssn/recharge/internal/client"
	"github.com/hperssn/recharge/internal/domain"
	"github.com/hperssn/recharge/internal/logging"
)

func recommendAction(ctx *cli.Context) error {
	mood, ok := domain.ParseMood(ctx.String("mood"))
	if !ok {
		return fmt.Errorf("unknown mood %q", ctx.String("mood"))
	}

	log, closer, err := logging.New(os.Stderr, logging.Options{Level: "warn"})
	if err != nil {
		return err
	}
	defer closer.Close()

	c := client.New(ctx.String("server"), log)
	summaries, err := c.RecommendOr(ctx.Context, mood, client.FocusFallback())
	if err != nil {
		return err
	}

	w := ctx.App.Writer
	for _, s := range summaries {
		fmt.Fprintf(w, "%-4s %-32s %2d min  %s\n", s.ID, s.Title, s.Duration, s.Category)
	}
	return nil
}
