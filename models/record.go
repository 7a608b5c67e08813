package models

import "time"

// FetchStatus classifies the outcome of one runner's collection pass.
type FetchStatus string

const (
	// StatusOK means every row of the runner's results table parsed cleanly.
	StatusOK FetchStatus = "ok"

	// StatusPartial means the page was fetched and the table located, but
	// one or more rows carry invalid time fields.
	StatusPartial FetchStatus = "partial"

	// StatusFailed means the page could not be fetched or its results
	// table could not be located at all.
	StatusFailed FetchStatus = "failed"
)

// TimeCell is one time field read from a results row. Raw preserves the
// source text so a value that failed to parse is still displayable.
// Valid=false with an empty Raw means the source had no data at all; a
// zero Duration with Valid=true is a genuine zero elapsed time.
type TimeCell struct {
	Raw      string        `json:"raw"`
	Duration time.Duration `json:"duration"`
	Valid    bool          `json:"valid"`
}

// NewTimeCell builds a valid cell from a parsed duration.
func NewTimeCell(raw string, d time.Duration) TimeCell {
	return TimeCell{Raw: raw, Duration: d, Valid: true}
}

// InvalidTimeCell builds a cell for text that matched no recognized format.
func InvalidTimeCell(raw string) TimeCell {
	return TimeCell{Raw: raw}
}

// SplitRecord is one checkpoint's timing for a single runner, in the order
// the source page lists it (assumed race order, never re-sorted).
type SplitRecord struct {
	// Checkpoint is the timing point name, e.g. "5km" or "Finish".
	Checkpoint string `json:"checkpoint"`

	// Pass is the time of day (or elapsed time, depending on the race
	// configuration) at which the runner crossed the checkpoint.
	Pass TimeCell `json:"pass_time"`

	// Segment is the duration spent between the previous checkpoint and
	// this one, as reported by the source page.
	Segment TimeCell `json:"split_time"`

	// Cumulative is the total elapsed time at this checkpoint.
	Cumulative TimeCell `json:"total_time"`

	// OutOfOrder flags a cumulative time lower than the previous row's.
	// The violation is reported, never corrected.
	OutOfOrder bool `json:"out_of_order,omitempty"`
}

// RunnerMeta is the page-header metadata shown above the results table.
// All fields are best-effort; extraction failures leave them empty.
type RunnerMeta struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Bib    string `json:"bib_no"`
	Event  string `json:"event_name"`
}

// RunnerResult is the complete outcome of collecting one runner. It is
// owned by the collection pass that produced it and immutable once returned.
type RunnerResult struct {
	RunnerID int           `json:"runner_id"`
	Meta     RunnerMeta    `json:"meta"`
	Splits   []SplitRecord `json:"splits"`
	Status   FetchStatus   `json:"status"`

	// FetchMethod records which path produced the HTML: "http" or "browser".
	FetchMethod string `json:"fetch_method,omitempty"`

	// Error is set when Status is failed, so the requester knows which
	// identifiers need a retry.
	Error *ErrorDetail `json:"error,omitempty"`
}

// FailedResult builds the result for a runner whose collection failed.
func FailedResult(runnerID int, err error) *RunnerResult {
	return &RunnerResult{
		RunnerID: runnerID,
		Splits:   []SplitRecord{},
		Status:   StatusFailed,
		Error:    AsError(err).ToDetail(),
	}
}
