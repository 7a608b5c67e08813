package aggregate

import (
	"testing"
	"time"

	"github.com/use-agent/splitboard/models"
)

func record(checkpoint string, cumulative time.Duration) models.SplitRecord {
	raw := checkpoint + "-time"
	return models.SplitRecord{
		Checkpoint: checkpoint,
		Pass:       models.NewTimeCell(raw, cumulative),
		Segment:    models.NewTimeCell(raw, cumulative),
		Cumulative: models.NewTimeCell(raw, cumulative),
	}
}

func runnerResult(id int, checkpoints ...string) *models.RunnerResult {
	splits := make([]models.SplitRecord, 0, len(checkpoints))
	for i, cp := range checkpoints {
		splits = append(splits, record(cp, time.Duration(i+1)*10*time.Minute))
	}
	return &models.RunnerResult{RunnerID: id, Splits: splits, Status: models.StatusOK}
}

func TestAggregate_DisjointCheckpointsUnion(t *testing.T) {
	results := map[int]*models.RunnerResult{
		1: runnerResult(1, "5km", "10km"),
		2: runnerResult(2, "5km", "Finish"),
	}

	table := Aggregate(results, []int{1, 2})

	want := []string{"5km", "10km", "Finish"}
	if len(table.Checkpoints) != len(want) {
		t.Fatalf("checkpoints = %v, want %v", table.Checkpoints, want)
	}
	for i, cp := range want {
		if table.Checkpoints[i] != cp {
			t.Errorf("checkpoints[%d] = %q, want %q (first-seen order)", i, table.Checkpoints[i], cp)
		}
	}

	// Present cells.
	if table.Cell("5km", 1) == nil || table.Cell("5km", 2) == nil {
		t.Error("both runners should have a 5km cell")
	}
	// Explicitly absent cells, not zero records.
	if table.Cell("10km", 2) != nil {
		t.Error("runner 2 has no 10km record; cell must be nil")
	}
	if table.Cell("Finish", 1) != nil {
		t.Error("runner 1 has no Finish record; cell must be nil")
	}
}

func TestAggregate_FailedRunnerStaysInColumns(t *testing.T) {
	results := map[int]*models.RunnerResult{
		1: runnerResult(1, "5km"),
		2: models.FailedResult(2, models.NewError(models.ErrCodeTimeout, "deadline exceeded", nil)),
	}

	table := Aggregate(results, []int{1, 2})

	if len(table.RunnerIDs) != 2 || table.RunnerIDs[1] != 2 {
		t.Errorf("RunnerIDs = %v, failed runner must keep its column", table.RunnerIDs)
	}
	if table.Cell("5km", 2) != nil {
		t.Error("failed runner contributes no cells")
	}
}

func TestAggregate_RunnerOrderIsStable(t *testing.T) {
	results := map[int]*models.RunnerResult{
		7: runnerResult(7, "5km"),
		3: runnerResult(3, "5km"),
		9: runnerResult(9, "5km"),
	}

	table := Aggregate(results, []int{9, 3, 7})

	want := []int{9, 3, 7}
	for i, id := range want {
		if table.RunnerIDs[i] != id {
			t.Fatalf("RunnerIDs = %v, want %v (request order, not map order)", table.RunnerIDs, want)
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	table := Aggregate(map[int]*models.RunnerResult{}, nil)
	if len(table.Checkpoints) != 0 || len(table.RunnerIDs) != 0 {
		t.Errorf("empty input should yield an empty table, got %+v", table)
	}
}
