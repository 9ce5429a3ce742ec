// ABOUTME: MCP resource implementations for the frame board.
// ABOUTME: Provides frame://board, frame://today, and frame://compliance resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	boardURI      = "frame://board"
	todayURI      = "frame://today"
	complianceURI = "frame://compliance"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         boardURI,
		Name:        "Month Board",
		Description: "Dates, active metrics, and logged values for the selected month",
		MIMEType:    "application/json",
	}, s.handleBoardResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today",
		Description: "Today's logged values with goal-met flags and unlogged metrics",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         complianceURI,
		Name:        "Compliance",
		Description: "Goal completion of weighted metrics over the last 30 days",
		MIMEType:    "application/json",
	}, s.handleComplianceResource)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// Resource handlers

func (s *Server) handleBoardResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	out, err := s.boardView("")
	if err != nil {
		return nil, err
	}
	return jsonResource(boardURI, out)
}

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	today := s.store.Today()
	entry, _ := s.store.DayEntry(today)

	values := make(map[string]any)
	goalMet := make(map[string]bool)
	missing := []string{}
	for _, m := range s.store.ActiveMetrics() {
		v := entry.Get(m.Slug)
		if v.IsNull() {
			missing = append(missing, m.Slug)
			continue
		}
		values[m.Slug] = v.Interface()
		goalMet[m.Slug] = s.store.IsGoalMet(m.Slug, v)
	}

	result := map[string]any{
		"date":     today,
		"values":   values,
		"goal_met": goalMet,
		"missing":  missing,
	}
	return jsonResource(todayURI, result)
}

func (s *Server) handleComplianceResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	out, err := s.compliance(defaultComplianceDays)
	if err != nil {
		return nil, err
	}
	return jsonResource(complianceURI, out)
}
