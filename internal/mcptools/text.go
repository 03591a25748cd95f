package mcptools

import (
	"context"

	"github.com/Conceptual-Machines/magda-harmony/internal/services"
	"github.com/mark3labs/mcp-go/mcp"
)

// EnrichTool handles the enrich_message MCP tool.
type EnrichTool struct {
	harmony *services.HarmonyService
}

func NewEnrichTool(harmony *services.HarmonyService) *EnrichTool {
	return &EnrichTool{harmony: harmony}
}

func (t *EnrichTool) Definition() mcp.Tool {
	return mcp.NewTool("enrich_message",
		mcp.WithDescription(
			"Extract music theory context from a chat message. Returns a modal analysis of any chord "+
				"symbols, a parsed guitar tab and the chord it spells. Parts not found are null.",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The user's message, verbatim"),
		),
	)
}

func (t *EnrichTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if text == "" {
		return mcp.NewToolResultError("'text' is required"), nil
	}

	resp, err := t.harmony.Enrich(ctx, text)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(resp)
}

// AnalyzeTool handles the analyze_progression MCP tool.
type AnalyzeTool struct {
	harmony *services.HarmonyService
}

func NewAnalyzeTool(harmony *services.HarmonyService) *AnalyzeTool {
	return &AnalyzeTool{harmony: harmony}
}

func (t *AnalyzeTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_progression",
		mcp.WithDescription(
			"Find the mode that best explains a chord progression. Returns the tonal center, mode, "+
				"confidence, borrowed chords and a short explanation.",
		),
		mcp.WithString("progression",
			mcp.Required(),
			mcp.Description("Chord symbols separated by spaces, commas, dashes or bars, e.g. \"Am F C G\""),
		),
	)
}

func (t *AnalyzeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	progression := req.GetString("progression", "")
	if progression == "" {
		return mcp.NewToolResultError("'progression' is required"), nil
	}

	result, err := t.harmony.AnalyzeProgression(ctx, progression)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result)
}

// TabTool handles the parse_guitar_tab MCP tool.
type TabTool struct {
	harmony *services.HarmonyService
}

func NewTabTool(harmony *services.HarmonyService) *TabTool {
	return &TabTool{harmony: harmony}
}

func (t *TabTool) Definition() mcp.Tool {
	return mcp.NewTool("parse_guitar_tab",
		mcp.WithDescription(
			"Parse ASCII guitar tablature into notes and measures, and name the chord when all notes "+
				"are struck together.",
		),
		mcp.WithString("tab",
			mcp.Required(),
			mcp.Description("Tab text with one line per string, e.g. \"e|--0--|\""),
		),
		mcp.WithArray("string_order",
			mcp.Description("Optional string index (0 = low E, 5 = high e) for each tab line, top to bottom"),
			mcp.Items(map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 5}),
		),
	)
}

func (t *TabTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("tab", "")
	if text == "" {
		return mcp.NewToolResultError("'tab' is required"), nil
	}
	order, err := intSliceArg(req, "string_order")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := t.harmony.ParseTab(ctx, text, order)
	if err != nil {
		return errorResult(err), nil
	}
	if resp.Tab == nil {
		return mcp.NewToolResultError("no tablature found in the input"), nil
	}
	return jsonResult(resp)
}

// ConstraintsTool handles the parse_voicing_constraints MCP tool.
type ConstraintsTool struct {
	harmony *services.HarmonyService
}

func NewConstraintsTool(harmony *services.HarmonyService) *ConstraintsTool {
	return &ConstraintsTool{harmony: harmony}
}

func (t *ConstraintsTool) Definition() mcp.Tool {
	return mcp.NewTool("parse_voicing_constraints",
		mcp.WithDescription(
			"Read voicing constraints (fret range, string set, open strings, barre, register, key) "+
				"out of a natural-language request.",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("e.g. \"no barre chords, stay between frets 5 and 8\""),
		),
	)
}

func (t *ConstraintsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if text == "" {
		return mcp.NewToolResultError("'text' is required"), nil
	}

	constraints, err := t.harmony.ParseConstraints(ctx, text)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(constraints)
}
