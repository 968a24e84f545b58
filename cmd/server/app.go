package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hperssn/recharge/internal/config"
	"github.com/hperssn/recharge/internal/logging"
	"github.com/hperssn/recharge/internal/storage"
)

func newApp() *cli.App {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a config file (yaml, toml or json).",
	}

	return &cli.App{
		Name:      "recharge",
		Usage:     "Serve short recharge exercises and run timed sessions.",
		UsageText: "[COMMAND] [OPTIONS]",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP API",
				Flags:  []cli.Flag{configFlag},
				Action: serveAction,
			},
			{
				Name:   "migrate",
				Usage:  "Apply database migrations for the sqlite and postgres drivers",
				Flags:  []cli.Flag{configFlag},
				Action: migrateAction,
			},
			{
				Name:  "recommend",
				Usage: "Print recommendations from a running server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "mood",
						Aliases: []string{"m"},
						Value:   "recharge",
						Usage:   "One of focus, emotion or recharge.",
					},
					&cli.StringFlag{
						Name:    "server",
						Aliases: []string{"s"},
						Value:   "http://localhost:8080",
						EnvVars: []string{"RECHARGE_SERVER"},
						Usage:   "Base URL of the recharge API.",
					},
				},
				Action: recommendAction,
			},
		},
		DefaultCommand: "serve",
	}
}

// setup loads config and builds the logger shared by the commands.
func setup(ctx *cli.Context) (config.Config, *slog.Logger, io.Closer, error) {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	log, closer, err := logging.New(os.Stderr, logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	return cfg, log, closer, nil
}

func migrateAction(ctx *cli.Context) error {
	cfg, log, closer, err := setup(ctx)
	if err != nil {
		return err
	}
	defer closer.Close()

	switch cfg.Storage.Driver {
	case storage.DriverSQLite, storage.DriverPostgres:
	default:
		log.Info("driver has no migrations", "driver", cfg.Storage.Driver)
		return nil
	}

	// Opening a SQL backend applies pending migrations.
	repo, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path, cfg.Storage.DSN)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	log.Info("migrations applied", "driver", cfg.Storage.Driver)
	return repo.Close()
}
