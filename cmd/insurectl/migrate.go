package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func migrateFlags(extra ...cli.Flag) []cli.Flag {
	return append(extra,
		&cli.StringFlag{
			Name:    "database",
			Aliases: []string{"d"},
			Usage:   "PostgreSQL URL",
			EnvVars: []string{"DATABASE_URL"},
		},
		&cli.StringFlag{
			Name:  "path",
			Usage: "Path to migrations directory",
			Value: "migrations",
		},
	)
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the PostgreSQL schema",
		Subcommands: []*cli.Command{
			{Name: "up", Usage: "Apply all pending migrations", Flags: migrateFlags(), Action: migrateUp},
			{
				Name:  "down",
				Usage: "Roll back migrations",
				Flags: migrateFlags(
					&cli.IntFlag{Name: "steps", Usage: "Number of migrations to roll back (0 = all)"},
				),
				Action: migrateDown,
			},
			{Name: "version", Usage: "Print the current schema version", Flags: migrateFlags(), Action: migrateVersion},
			{
				Name:      "force",
				Usage:     "Set the schema version without running migrations",
				ArgsUsage: "<version>",
				Flags:     migrateFlags(),
				Action:    migrateForce,
			},
		},
	}
}

func newMigrator(c *cli.Context) (*migrate.Migrate, error) {
	dbURL := c.String("database")
	if dbURL == "" {
		return nil, errors.New("database URL is required (--database or DATABASE_URL)")
	}
	m, err := migrate.New("file://"+c.String("path"), dbURL)
	if err != nil {
		return nil, fmt.Errorf("create migration instance: %w", err)
	}
	return m, nil
}

func closeMigrator(c *cli.Context, m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil || dbErr != nil {
		appLogger(c).Warn("Failed to close migrator", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
	}
}

func migrateUp(c *cli.Context) error {
	m, err := newMigrator(c)
	if err != nil {
		return err
	}
	defer closeMigrator(c, m)

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Fprintln(c.App.Writer, "no migrations to run (database is up to date)")
		return nil
	}
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	fmt.Fprintln(c.App.Writer, "migrations applied")
	return nil
}

func migrateDown(c *cli.Context) error {
	m, err := newMigrator(c)
	if err != nil {
		return err
	}
	defer closeMigrator(c, m)

	if steps := c.Int("steps"); steps > 0 {
		err = m.Steps(-steps)
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("roll back migrations: %w", err)
	}
	fmt.Fprintln(c.App.Writer, "rollback completed")
	return nil
}

func migrateVersion(c *cli.Context) error {
	m, err := newMigrator(c)
	if err != nil {
		return err
	}
	defer closeMigrator(c, m)

	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(c.App.Writer, "no migrations applied")
		return nil
	}
	if err != nil {
		return fmt.Errorf("get version: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "version %d (dirty: %t)\n", v, dirty)
	return nil
}

func migrateForce(c *cli.Context) error {
	v, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return fmt.Errorf("force requires a numeric version: %w", err)
	}
	m, err := newMigrator(c)
	if err != nil {
		return err
	}
	defer closeMigrator(c, m)

	if err := m.Force(v); err != nil {
		return fmt.Errorf("force version: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "forced version %d\n", v)
	return nil
}
