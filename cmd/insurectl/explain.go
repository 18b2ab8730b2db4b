package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/insurefilter/internal/db/memory"
	"github.com/kailas-cloud/insurefilter/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/insurefilter/internal/db/redis"
	"github.com/kailas-cloud/insurefilter/internal/domain/criteria"
	insurancerepo "github.com/kailas-cloud/insurefilter/internal/repository/insurance"
	filteringuc "github.com/kailas-cloud/insurefilter/internal/usecase/filtering"
)

func explainCommand() *cli.Command {
	return &cli.Command{
		Name:      "explain",
		Usage:     "Show the normalized criteria and the filter each backend would run",
		ArgsUsage: "[criteria JSON]",
		Action:    explainAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Read criteria JSON from a file (- for stdin)",
			},
			&cli.BoolFlag{
				Name:  "legacy-age-around",
				Usage: "Use price+5 as the upper bound of the age \"around\" range",
			},
			&cli.StringFlag{
				Name:  "empty-criteria",
				Usage: "Policy for criteria that compile to nothing (match_all, no_results)",
				Value: string(filteringuc.MatchAll),
			},
		},
	}
}

func explainAction(c *cli.Context) error {
	data, err := readCriteria(c)
	if err != nil {
		return err
	}
	var raw criteria.Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode criteria: %w", err)
	}

	policy, err := filteringuc.ParseEmptyPolicy(c.String("empty-criteria"))
	if err != nil {
		return err
	}
	compiler := filteringuc.NewCompiler(filteringuc.WithLegacyAgeAround(c.Bool("legacy-age-around")))
	svc := filteringuc.New(nil, compiler, policy)

	return writeExplanation(c.App.Writer, svc.Explain(raw))
}

func readCriteria(c *cli.Context) ([]byte, error) {
	switch path := c.String("file"); {
	case path == "-":
		data, err := io.ReadAll(c.App.Reader)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	case path != "":
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read criteria: %w", err)
		}
		return data, nil
	}
	if c.NArg() == 0 {
		return nil, errors.New("criteria JSON argument or --file is required")
	}
	return []byte(strings.Join(c.Args().Slice(), " ")), nil
}

func writeExplanation(w io.Writer, e filteringuc.Explanation) error {
	normalized, err := json.Marshal(e.Criteria)
	if err != nil {
		return fmt.Errorf("encode criteria: %w", err)
	}
	where, args, err := postgres.RenderWhere(e.Filter, insurancerepo.SQLColumns)
	if err != nil {
		return fmt.Errorf("render sql: %w", err)
	}

	fmt.Fprintf(w, "criteria:    %s\n", normalized)
	fmt.Fprintf(w, "filter:      %s\n", e.Filter)
	fmt.Fprintf(w, "groups:      %d\n", filteringuc.ClauseGroups(e.Filter))
	fmt.Fprintf(w, "skips store: %t\n", e.SkipsStore)
	fmt.Fprintf(w, "redis:       %s\n", dbRedis.RenderQuery(e.Filter))
	fmt.Fprintf(w, "postgres:    WHERE %s %v\n", where, args)
	fmt.Fprintf(w, "cel:         %s\n", memory.RenderCEL(e.Filter))
	return nil
}
