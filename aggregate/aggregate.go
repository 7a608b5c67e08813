// Package aggregate merges per-runner split records into one comparison
// table keyed by checkpoint name.
package aggregate

import (
	"github.com/use-agent/splitboard/models"
)

// Aggregate outer-joins the runner results on checkpoint name. Checkpoints
// keep first-seen order walking runners in the given order; order also
// fixes the table's runner columns (map iteration order is not stable).
//
// Every id in order appears in the table, including failed runners, whose
// column is simply all-absent. A checkpoint a runner never reached stays a
// nil cell, distinguishable from a recorded zero time.
func Aggregate(results map[int]*models.RunnerResult, order []int) *models.ComparisonTable {
	table := &models.ComparisonTable{
		Checkpoints: []string{},
		RunnerIDs:   append([]int(nil), order...),
		Cells:       make(map[string]map[int]*models.SplitRecord),
	}

	for _, id := range order {
		result, ok := results[id]
		if !ok || result == nil {
			continue
		}
		for i := range result.Splits {
			rec := &result.Splits[i]
			row, seen := table.Cells[rec.Checkpoint]
			if !seen {
				table.Checkpoints = append(table.Checkpoints, rec.Checkpoint)
				row = make(map[int]*models.SplitRecord, len(order))
				table.Cells[rec.Checkpoint] = row
			}
			if _, dup := row[id]; !dup {
				row[id] = rec
			}
		}
	}

	return table
}
