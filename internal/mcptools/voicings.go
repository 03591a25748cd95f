package mcptools

import (
	"context"

	"github.com/Conceptual-Machines/magda-harmony/internal/services"
	"github.com/Conceptual-Machines/magda-harmony/internal/voicing"
	"github.com/mark3labs/mcp-go/mcp"
)

// VoicingsTool handles the generate_voicings MCP tool.
type VoicingsTool struct {
	harmony *services.HarmonyService
}

func NewVoicingsTool(harmony *services.HarmonyService) *VoicingsTool {
	return &VoicingsTool{harmony: harmony}
}

func (t *VoicingsTool) Definition() mcp.Tool {
	return mcp.NewTool("generate_voicings",
		mcp.WithDescription(
			"Generate up to four ranked guitar or piano voicings for a chord. Guitar voicings include "+
				"fret positions and barres; piano voicings include inversions and MIDI notes. "+
				"Constraints can be given in plain English.",
		),
		mcp.WithString("chord",
			mcp.Required(),
			mcp.Description("Chord symbol, e.g. \"Bm7\""),
		),
		mcp.WithString("instrument",
			mcp.Description("Target instrument"),
			mcp.Enum(string(voicing.InstrumentGuitar), string(voicing.InstrumentPiano)),
		),
		mcp.WithString("constraints",
			mcp.Description("Natural-language constraints, e.g. \"open position, no barre\""),
		),
		mcp.WithNumber("count",
			mcp.Description("How many voicings to return (1-4)"),
		),
		mcp.WithBoolean("lesson_mode",
			mcp.Description("Attach a playing tip to each guitar voicing"),
		),
	)
}

func (t *VoicingsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chord := req.GetString("chord", "")
	if chord == "" {
		return mcp.NewToolResultError("'chord' is required"), nil
	}

	resp, err := t.harmony.GenerateVoicings(ctx, voicing.Request{
		Instrument:     voicing.Instrument(req.GetString("instrument", string(voicing.InstrumentGuitar))),
		ChordInput:     voicing.Symbolic(chord),
		ConstraintText: req.GetString("constraints", ""),
		Count:          intArg(req, "count", 0),
		LessonMode:     boolArg(req, "lesson_mode", false),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(resp)
}
