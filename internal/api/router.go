package api

import (
	"net/http"

	"github.com/Conceptual-Machines/magda-harmony/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/magda-harmony/internal/api/middleware"
	"github.com/Conceptual-Machines/magda-harmony/internal/config"
	"github.com/Conceptual-Machines/magda-harmony/internal/metrics"
	"github.com/Conceptual-Machines/magda-harmony/internal/services"
	"github.com/gin-gonic/gin"
)

// Dependencies are the long-lived components the router mounts.
// Prometheus, CloudWatch and MCP are optional.
type Dependencies struct {
	Harmony    *services.HarmonyService
	Prometheus *metrics.Prometheus
	CloudWatch *metrics.Client
	MCP        http.Handler
	MCPTools   []string
}

func SetupRouter(cfg *config.Config, deps Dependencies, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(deps.Prometheus, deps.CloudWatch))

	// CORS middleware
	router.Use(apimiddleware.CORS(cfg.CORSAllowedOrigins))

	// Health check
	healthHandler := handlers.NewHealthHandler(version, deps.MCP != nil)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoints
	metricsHandler := handlers.NewMetricsHandler(version)
	router.GET("/api/metrics", metricsHandler.GetMetrics)
	if deps.Prometheus != nil {
		router.GET("/metrics", gin.WrapH(deps.Prometheus.Handler()))
	}

	// MCP server (streamable HTTP)
	mcpHandler := handlers.NewMCPStatusHandler(deps.MCP != nil, deps.MCPTools)
	router.GET("/mcp/status", mcpHandler.MCPStatus)
	if deps.MCP != nil {
		router.Any("/mcp", gin.WrapH(deps.MCP))
	}

	v1 := router.Group("/api/v1")
	{
		chatHandler := handlers.NewChatHandler(deps.Harmony)
		v1.POST("/chat/enrich", chatHandler.Enrich)

		analysisHandler := handlers.NewAnalysisHandler(deps.Harmony)
		v1.POST("/analysis/progression", analysisHandler.AnalyzeProgression)

		tabHandler := handlers.NewTabHandler(deps.Harmony)
		v1.POST("/tabs/parse", tabHandler.ParseTab)

		theoryHandler := handlers.NewTheoryHandler(deps.Harmony)
		v1.GET("/theory/scales/:root/:mode", theoryHandler.Scale)
		v1.GET("/theory/chords/:root/:mode", theoryHandler.ModeChords)
		v1.POST("/theory/chords/parse", theoryHandler.ParseChord)

		voicingHandler := handlers.NewVoicingHandler(deps.Harmony)
		v1.POST("/voicings", voicingHandler.Generate)
		v1.POST("/voicings/constraints", voicingHandler.ParseConstraints)
		v1.POST("/voicings/midi", voicingHandler.MIDI)
	}

	return router
}
