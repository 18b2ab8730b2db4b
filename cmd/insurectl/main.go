// Command insurectl inspects compiled filters, seeds stores and runs schema migrations.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/insurefilter/internal/config"
	logpkg "github.com/kailas-cloud/insurefilter/internal/logger"
	"github.com/kailas-cloud/insurefilter/internal/version"
)

const loggerKey = "logger"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "insurectl",
		Usage:   "Insurance filter tooling",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			explainCommand(),
			seedCommand(),
			migrateCommand(),
		},
	}
}

func setupLogger(c *cli.Context) error {
	logger, err := logpkg.NewLogger(config.GetEnv(), c.String("log-level"))
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[loggerKey] = logger
	return nil
}

func appLogger(c *cli.Context) *zap.Logger {
	if l, ok := c.App.Metadata[loggerKey].(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
