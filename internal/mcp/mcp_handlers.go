package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/communitypulse/pulse/internal/contract"
	"github.com/communitypulse/pulse/internal/histstore"
	"github.com/communitypulse/pulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

func (h *toolHandler) handleListFamilies(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	families := make(map[string][]string, len(schema.AllFamilies))
	for _, family := range schema.AllFamilies {
		metrics := schema.FamilyMetrics[family]
		names := make([]string, 0, len(metrics))
		for _, m := range metrics {
			names = append(names, string(m))
		}
		families[string(family)] = names
	}

	jsonData, _ := json.MarshalIndent(families, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetHistory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	family := schema.Family(request.GetString("family", ""))
	if _, ok := schema.ValidFamilies[family]; !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown family: %s", family)), nil
	}

	granularity := schema.Granularity(request.GetString("granularity", string(schema.MonthlyGranularity)))

	store := histstore.NewStore(h.baseCfg.DataDir)
	hist, err := store.LoadHistory(family)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load history: %v", err)), nil
	}

	series := hist.Series(granularity)
	if limit := request.GetInt("limit", 0); limit > 0 && limit < len(series) {
		series = series[len(series)-limit:]
	}

	jsonData, _ := json.MarshalIndent(series, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetLatest(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	family := schema.Family(request.GetString("family", ""))
	if _, ok := schema.ValidFamilies[family]; !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown family: %s", family)), nil
	}

	store := histstore.NewStore(h.baseCfg.DataDir)
	log, err := store.LoadRawLog(family)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load raw log: %v", err)), nil
	}
	if len(log.Entries) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no data points recorded for %s", family)), nil
	}

	latest := log.Entries[len(log.Entries)-1]
	jsonData, _ := json.MarshalIndent(latest, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
