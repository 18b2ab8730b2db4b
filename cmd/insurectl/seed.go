package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/insurefilter/internal/backend"
	"github.com/kailas-cloud/insurefilter/internal/config"
	"github.com/kailas-cloud/insurefilter/internal/fixtures"
)

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:   "seed",
		Usage:  "Upsert fixture records into the configured store",
		Action: seedAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "Config environment (config/<env>.yaml)",
				Value:   config.GetEnv(),
			},
			&cli.StringFlag{
				Name:  "fixtures",
				Usage: "Path to the fixtures YAML file",
				Value: "fixtures/insurances.yaml",
			},
		},
	}
}

func seedAction(c *cli.Context) error {
	logger := appLogger(c)

	cfg, err := config.Load(c.String("env"))
	if err != nil {
		return err
	}
	records, err := fixtures.Load(c.String("fixtures"))
	if err != nil {
		return err
	}

	be, err := backend.Open(c.Context, cfg.Database, cfg.Storage)
	if err != nil {
		return err
	}
	defer be.Close()

	if err := be.Repo.UpsertMany(c.Context, records); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	total, err := be.Repo.Count(c.Context)
	if err != nil {
		return fmt.Errorf("count: %w", err)
	}

	logger.Info("Fixtures seeded",
		zap.String("driver", be.Driver),
		zap.Int("records", len(records)),
		zap.Int("total", total),
	)
	fmt.Fprintf(c.App.Writer, "seeded %d records into %s (%d total)\n", len(records), be.Driver, total)
	return nil
}
