package mcptools

import (
	"net/http"

	"github.com/Conceptual-Machines/magda-harmony/internal/services"
	"github.com/mark3labs/mcp-go/server"
)

const serverName = "magda-harmony"

// NewServer creates an MCP server with every harmony tool registered
func NewServer(svc *services.HarmonyService, version string) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	for _, t := range Tools(svc) {
		s.AddTool(t.Definition(), t.Handle)
	}
	return s
}

// NewHTTPHandler serves s over the streamable HTTP transport at path.
// Sessions are not kept: every tool call is independent.
func NewHTTPHandler(s *server.MCPServer, path string) http.Handler {
	return server.NewStreamableHTTPServer(s,
		server.WithEndpointPath(path),
		server.WithStateLess(true),
	)
}

// ToolNames lists the registered tool names in registration order
func ToolNames(svc *services.HarmonyService) []string {
	tools := Tools(svc)
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Definition().Name)
	}
	return names
}

func serverInstructions() string {
	return `magda-harmony answers music theory questions deterministically.

Use enrich_message on a user's message to find chord progressions and guitar tabs in it.
Use analyze_progression to explain which mode a progression is in, and which chords are borrowed.
Use generate_voicings when the user asks how to play a chord; pass their wording as constraints.
Results are JSON. Errors include suggestions you can relay to the user.`
}
