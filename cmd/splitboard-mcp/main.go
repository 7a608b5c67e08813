// Command splitboard-mcp exposes the comparison pipeline as MCP tools over
// stdio, forwarding tool calls to a running splitboard HTTP server.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// compareRequest mirrors the splitboard API request model.
type compareRequest struct {
	RaceID    string `json:"race_id"`
	RunnerIDs []int  `json:"runner_ids"`
}

// compareResponse mirrors the splitboard API response model.
type compareResponse struct {
	Success bool `json:"success"`
	Table   *struct {
		Checkpoints []string                   `json:"checkpoints"`
		RunnerIDs   []int                      `json:"runner_ids"`
		Cells       map[string]json.RawMessage `json:"cells"`
	} `json:"table"`
	Runners []struct {
		RunnerID int `json:"runner_id"`
		Meta     struct {
			Name string `json:"name"`
			Bib  string `json:"bib_no"`
		} `json:"meta"`
		Status string `json:"status"`
		Error  *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"runners"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("SPLITBOARD_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("SPLITBOARD_API_KEY")

	s := server.NewMCPServer(
		"splitboard",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	compareTool := mcp.NewTool("compare_runners",
		mcp.WithDescription("Collect checkpoint split times for a set of race participants and return them as one comparison table. Runners whose pages are unavailable are reported with a failed status instead of being dropped."),
		mcp.WithString("race_id",
			mcp.Required(),
			mcp.Description("Race identifier on the results site"),
		),
		mcp.WithString("runner_ids",
			mcp.Required(),
			mcp.Description("Comma-separated runner identifiers, e.g. \"1051,1342,2391\""),
		),
	)
	s.AddTool(compareTool, handleCompareRunners(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleCompareRunners(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 300 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raceID, err := request.RequireString("race_id")
		if err != nil {
			return mcp.NewToolResultError("race_id is required"), nil
		}
		runnersArg, err := request.RequireString("runner_ids")
		if err != nil {
			return mcp.NewToolResultError("runner_ids is required"), nil
		}

		runnerIDs, err := parseRunnerIDs(runnersArg)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		body, err := json.Marshal(compareRequest{RaceID: raceID, RunnerIDs: runnerIDs})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal request: %v", err)), nil
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+"/api/v1/compare", bytes.NewReader(body))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if apiKey != "" {
			httpReq.Header.Set("X-API-Key", apiKey)
		}

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}

		var compareResp compareResponse
		if err := json.Unmarshal(respBody, &compareResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !compareResp.Success {
			errMsg := "compare failed"
			if compareResp.Error != nil {
				errMsg = fmt.Sprintf("%s: %s", compareResp.Error.Code, compareResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		// Hand the full table back as JSON; the caller decides how to
		// summarize it.
		return mcp.NewToolResultText(string(respBody)), nil
	}
}

func parseRunnerIDs(arg string) ([]int, error) {
	parts := strings.Split(arg, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid runner id %q", p)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("runner_ids must contain at least one id")
	}
	return ids, nil
}
