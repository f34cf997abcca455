// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/communitypulse/pulse/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Pulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"Pulse Metrics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
	}

	// --- 1. Tool: list_families ---
	s.AddTool(mcp.NewTool("list_families",
		mcp.WithDescription("List the metric families tracked by the pipeline and the metrics each one carries."),
	), h.handleListFamilies)

	// --- 2. Tool: get_history ---
	s.AddTool(mcp.NewTool("get_history",
		mcp.WithDescription("Read a family's aggregated history series at a chosen granularity."),
		mcp.WithString("family", mcp.Description("Metric family to read."), mcp.Required(), mcp.Enum("github", "forum", "bluesky", "reddit", "events", "creators")),
		mcp.WithString("granularity", mcp.Description("Series granularity (daily, weekly, monthly). Defaults to 'monthly'."), mcp.Enum("daily", "weekly", "monthly")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of most recent points returned.")),
	), h.handleGetHistory)

	// --- 3. Tool: get_latest ---
	s.AddTool(mcp.NewTool("get_latest",
		mcp.WithDescription("Read the most recent raw data point recorded for a family."),
		mcp.WithString("family", mcp.Description("Metric family to read."), mcp.Required(), mcp.Enum("github", "forum", "bluesky", "reddit", "events", "creators")),
	), h.handleGetLatest)

	return s
}

// StartMCPServer starts the Pulse MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
