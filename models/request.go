package models

// CompareRequest is the payload for POST /api/v1/compare.
type CompareRequest struct {
	// RaceID identifies the race on the results site. Required.
	RaceID string `json:"race_id" binding:"required"`

	// RunnerIDs are the participant identifiers to collect. Required.
	RunnerIDs []int `json:"runner_ids" binding:"required,min=1,max=100,dive,min=1"`

	// Format selects the response body: "json" (default) or "csv".
	Format string `json:"format,omitempty" binding:"omitempty,oneof=json csv"`
}

// Defaults applies default values to unset fields.
func (r *CompareRequest) Defaults() {
	if r.Format == "" {
		r.Format = "json"
	}
}

// CompareResponse is the JSON response for POST /api/v1/compare.
type CompareResponse struct {
	// Success is false only for request-level failures; per-runner
	// failures are reported inside Runners.
	Success bool `json:"success"`

	// Table is the checkpoint-keyed comparison across all runners.
	Table *ComparisonTable `json:"table,omitempty"`

	// Runners are the per-runner outcomes in request order, including
	// failed ones so the caller sees which identifiers need retry.
	Runners []*RunnerResult `json:"runners,omitempty"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the response for GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
