// Package mcptools exposes the harmony engine as MCP tools.
//
// Each tool follows the same pattern:
//   - a struct holding the shared HarmonyService
//   - Definition() returns the mcp.Tool schema
//   - Handle() runs the engine and returns JSON text
//
// Engine failures are returned as tool errors, never as Go errors, so the
// calling model can read them and retry.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/magda-harmony/internal/services"
	"github.com/Conceptual-Machines/magda-harmony/internal/voicing"
	"github.com/mark3labs/mcp-go/mcp"
)

// intArg extracts an integer argument, returning defaultVal if the key is
// missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// intSliceArg reads an array of numbers. Non-numeric entries are an error.
func intSliceArg(req mcp.CallToolRequest, key string) ([]int, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s must be an array of numbers", key)
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		n, ok := item.(float64)
		if !ok {
			return nil, fmt.Errorf("%s must be an array of numbers", key)
		}
		out = append(out, int(n))
	}
	return out, nil
}

// jsonResult renders v as indented JSON text
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult turns an engine error into a readable tool error
func errorResult(err error) *mcp.CallToolResult {
	genErr, ok := voicing.AsGenerationError(err)
	if !ok {
		return mcp.NewToolResultError(err.Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s", genErr.Code, genErr.Message))
	if len(genErr.Suggestions) > 0 {
		sb.WriteString("\n\nSuggestions:\n")
		for _, s := range genErr.Suggestions {
			sb.WriteString("- " + s + "\n")
		}
	}
	return mcp.NewToolResultError(sb.String())
}

// Tool is implemented by every handler in this package
type Tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Tools builds every tool against svc, in registration order
func Tools(svc *services.HarmonyService) []Tool {
	return []Tool{
		NewEnrichTool(svc),
		NewAnalyzeTool(svc),
		NewTabTool(svc),
		NewScaleTool(svc),
		NewModeChordsTool(svc),
		NewParseChordTool(svc),
		NewConstraintsTool(svc),
		NewVoicingsTool(svc),
	}
}
