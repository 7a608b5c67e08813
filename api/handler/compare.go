package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/splitboard/aggregate"
	"github.com/use-agent/splitboard/collector"
	"github.com/use-agent/splitboard/models"
)

// Compare returns a handler for POST /api/v1/compare. It runs one full
// collection pass and responds with the comparison table as JSON, or as a
// CSV attachment when format=csv.
func Compare(col *collector.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CompareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.CompareResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		results := col.Collect(c.Request.Context(), req.RaceID, req.RunnerIDs)
		table := aggregate.Aggregate(results, req.RunnerIDs)

		if req.Format == "csv" {
			c.Header("Content-Type", "text/csv; charset=utf-8")
			c.Header("Content-Disposition", `attachment; filename="splits.csv"`)
			c.Status(http.StatusOK)
			_ = table.WriteCSV(c.Writer)
			return
		}

		runners := make([]*models.RunnerResult, 0, len(req.RunnerIDs))
		for _, id := range req.RunnerIDs {
			if result, ok := results[id]; ok {
				runners = append(runners, result)
			}
		}

		c.JSON(http.StatusOK, models.CompareResponse{
			Success: true,
			Table:   table,
			Runners: runners,
		})
	}
}
