package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/use-agent/splitboard/aggregate"
	"github.com/use-agent/splitboard/config"
	"github.com/use-agent/splitboard/models"
)

func newCompareCmd(cfg *config.Config) *cobra.Command {
	var (
		raceID      string
		runnersFlag string
		runnersFile string
		csvPath     string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Collect split times for a runner set and print a comparison table",
		RunE: func(cmd *cobra.Command, args []string) error {
			runnerIDs, err := resolveRunnerIDs(runnersFlag, runnersFile)
			if err != nil {
				return err
			}
			if raceID == "" {
				return fmt.Errorf("--race is required")
			}

			col, cleanup := buildPipeline(cfg)
			defer cleanup()

			// Ctrl-C keeps whatever was already collected.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			results := col.Collect(ctx, raceID, runnerIDs)
			cmp := aggregate.Aggregate(results, runnerIDs)

			renderTable(cmd.OutOrStdout(), cmp, results)

			if csvPath != "" {
				f, err := os.Create(csvPath)
				if err != nil {
					return fmt.Errorf("create csv: %w", err)
				}
				defer f.Close()
				if err := cmp.WriteCSV(f); err != nil {
					return fmt.Errorf("write csv: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", csvPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&raceID, "race", "", "race identifier on the results site")
	cmd.Flags().StringVar(&runnersFlag, "runners", "", "comma-separated runner identifiers")
	cmd.Flags().StringVar(&runnersFile, "runners-file", "", "file with one runner identifier per line")
	cmd.Flags().StringVar(&csvPath, "csv", "", "also write the comparison table to this CSV file")
	return cmd
}

// resolveRunnerIDs merges the --runners list and --runners-file contents.
// File lines may carry a trailing ", <distance>" column (the hand-kept
// roster format); everything after the first comma is ignored there.
func resolveRunnerIDs(runnersFlag, runnersFile string) ([]int, error) {
	var raw []string
	if runnersFlag != "" {
		raw = append(raw, strings.Split(runnersFlag, ",")...)
	}
	if runnersFile != "" {
		data, err := os.ReadFile(runnersFile)
		if err != nil {
			return nil, fmt.Errorf("read runners file: %w", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if first, _, found := strings.Cut(line, ","); found {
				raw = append(raw, first)
			} else {
				raw = append(raw, line)
			}
		}
	}

	seen := make(map[int]struct{})
	ids := make([]int, 0, len(raw))
	for _, field := range raw {
		field = strings.TrimSpace(field)
		if field == "" || strings.HasPrefix(field, "#") {
			continue
		}
		id, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid runner id %q", field)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no runner ids given (use --runners or --runners-file)")
	}
	return ids, nil
}

// renderTable prints the comparison table plus a per-runner status line.
func renderTable(w io.Writer, cmp *models.ComparisonTable, results map[int]*models.RunnerResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{"checkpoint"}
	for _, id := range cmp.RunnerIDs {
		label := strconv.Itoa(id)
		if r := results[id]; r != nil && r.Meta.Name != "" {
			label = fmt.Sprintf("%s (#%d)", r.Meta.Name, id)
		}
		header = append(header, label+" pass", label+" total")
	}
	t.AppendHeader(header)

	for _, row := range cmp.Rows() {
		cells := make(table.Row, len(row))
		for i, v := range row {
			cells[i] = v
		}
		t.AppendRow(cells)
	}
	t.SetStyle(table.StyleLight)
	t.Render()

	for _, id := range cmp.RunnerIDs {
		r := results[id]
		if r == nil {
			continue
		}
		switch r.Status {
		case models.StatusFailed:
			fmt.Fprintf(w, "runner %d: unavailable (%s)\n", id, r.Error.Code)
		case models.StatusPartial:
			fmt.Fprintf(w, "runner %d: partial data (some rows unparsed)\n", id)
		}
	}
}
