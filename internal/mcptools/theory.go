package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/magda-harmony/internal/services"
	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
	"github.com/mark3labs/mcp-go/mcp"
)

func modeKeys() []string {
	modes := theory.Modes()
	keys := make([]string, 0, len(modes))
	for _, m := range modes {
		keys = append(keys, m.Key)
	}
	return keys
}

func rootAndMode(req mcp.CallToolRequest) (string, string, error) {
	root := req.GetString("root", "")
	if root == "" {
		return "", "", fmt.Errorf("'root' is required")
	}
	return root, req.GetString("mode", theory.ModeMajor), nil
}

// ScaleTool handles the scale_notes MCP tool.
type ScaleTool struct {
	harmony *services.HarmonyService
}

func NewScaleTool(harmony *services.HarmonyService) *ScaleTool {
	return &ScaleTool{harmony: harmony}
}

func (t *ScaleTool) Definition() mcp.Tool {
	return mcp.NewTool("scale_notes",
		mcp.WithDescription("List the seven notes of a mode on a root, with its characteristic note."),
		mcp.WithString("root",
			mcp.Required(),
			mcp.Description("Root note, e.g. \"D\", \"F#\", \"Bb\""),
		),
		mcp.WithString("mode",
			mcp.Description(fmt.Sprintf("One of %s. Unknown modes fall back to major.", strings.Join(modeKeys(), ", "))),
		),
	)
}

func (t *ScaleTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, mode, err := rootAndMode(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := t.harmony.Scale(ctx, root, mode)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(resp)
}

// ModeChordsTool handles the mode_chords MCP tool.
type ModeChordsTool struct {
	harmony *services.HarmonyService
}

func NewModeChordsTool(harmony *services.HarmonyService) *ModeChordsTool {
	return &ModeChordsTool{harmony: harmony}
}

func (t *ModeChordsTool) Definition() mcp.Tool {
	return mcp.NewTool("mode_chords",
		mcp.WithDescription(
			"List the seven diatonic triads of a mode with roman numerals and harmonic functions.",
		),
		mcp.WithString("root",
			mcp.Required(),
			mcp.Description("Root note, e.g. \"A\""),
		),
		mcp.WithString("mode",
			mcp.Description("Mode name, e.g. \"dorian\" or \"aeolian\". Defaults to major."),
		),
	)
}

func (t *ModeChordsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, mode, err := rootAndMode(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := t.harmony.ModeChords(ctx, root, mode)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(resp)
}

// ParseChordTool handles the parse_chord MCP tool.
type ParseChordTool struct {
	harmony *services.HarmonyService
}

func NewParseChordTool(harmony *services.HarmonyService) *ParseChordTool {
	return &ParseChordTool{harmony: harmony}
}

func (t *ParseChordTool) Definition() mcp.Tool {
	return mcp.NewTool("parse_chord",
		mcp.WithDescription("Parse a chord symbol into root, quality, extensions, bass and chord tones."),
		mcp.WithString("symbol",
			mcp.Required(),
			mcp.Description("Chord symbol, e.g. \"Cmaj7\", \"F#m7b5/A\""),
		),
	)
}

func (t *ParseChordTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symbol := req.GetString("symbol", "")
	if symbol == "" {
		return mcp.NewToolResultError("'symbol' is required"), nil
	}

	resp, err := t.harmony.ParseChord(ctx, symbol)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(resp)
}
