package models

import (
	"encoding/csv"
	"io"
	"strconv"
)

// ComparisonTable is the outer join of several runners' split records,
// keyed by checkpoint name. Checkpoints keep first-seen order across the
// runner set; a runner that has no record for a checkpoint maps to nil,
// which is how "not reached" stays distinguishable from a zero time.
type ComparisonTable struct {
	// Checkpoints in first-seen order across all runners.
	Checkpoints []string `json:"checkpoints"`

	// RunnerIDs in the caller's requested order. Failed runners stay in
	// the list so the output shows which identifiers came back empty.
	RunnerIDs []int `json:"runner_ids"`

	// Cells maps checkpoint -> runner id -> record. Absent cells are nil.
	Cells map[string]map[int]*SplitRecord `json:"cells"`
}

// Cell returns the record for one checkpoint/runner pair, or nil when the
// runner has no data for that checkpoint.
func (t *ComparisonTable) Cell(checkpoint string, runnerID int) *SplitRecord {
	row, ok := t.Cells[checkpoint]
	if !ok {
		return nil
	}
	return row[runnerID]
}

// Header returns the export column names: checkpoint, then a pass/cumulative
// pair per runner.
func (t *ComparisonTable) Header() []string {
	header := make([]string, 0, 1+2*len(t.RunnerIDs))
	header = append(header, "checkpoint")
	for _, id := range t.RunnerIDs {
		rid := strconv.Itoa(id)
		header = append(header, rid+"_pass", rid+"_total")
	}
	return header
}

// Rows renders the table row-oriented for export. Missing cells and invalid
// time fields render as "-" so they are never mistaken for zero times.
func (t *ComparisonTable) Rows() [][]string {
	rows := make([][]string, 0, len(t.Checkpoints))
	for _, cp := range t.Checkpoints {
		row := make([]string, 0, 1+2*len(t.RunnerIDs))
		row = append(row, cp)
		for _, id := range t.RunnerIDs {
			rec := t.Cell(cp, id)
			row = append(row, cellText(rec, false), cellText(rec, true))
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes the header plus all rows to w in the export layout.
func (t *ComparisonTable) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return err
	}
	for _, row := range t.Rows() {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cellText(rec *SplitRecord, cumulative bool) string {
	if rec == nil {
		return "-"
	}
	cell := rec.Pass
	if cumulative {
		cell = rec.Cumulative
	}
	if cell.Raw == "" {
		return "-"
	}
	return cell.Raw
}
