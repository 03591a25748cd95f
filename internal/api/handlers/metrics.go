package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
	"github.com/Conceptual-Machines/magda-harmony/internal/voicing"
	"github.com/gin-gonic/gin"
)

// MetricsHandler reports process uptime and the catalogs the engine serves from
type MetricsHandler struct {
	startTime time.Time
	version   string
}

func NewMetricsHandler(version string) *MetricsHandler {
	return &MetricsHandler{startTime: time.Now(), version: version}
}

type MetricsResponse struct {
	Version       string        `json:"version"`
	StartTime     string        `json:"start_time"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	Goroutines    int           `json:"goroutines"`
	Engine        EngineMetrics `json:"engine"`
}

// EngineMetrics describes the static catalogs compiled into the service
type EngineMetrics struct {
	Modes          int      `json:"modes"`
	AnalysisModes  int      `json:"analysis_modes"`
	ChordShapes    int      `json:"chord_shapes"`
	Qualities      int      `json:"qualities"`
	MaxVoicings    int      `json:"max_voicings"`
	RhythmPatterns []string `json:"rhythm_patterns"`
}

func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, MetricsResponse{
		Version:       h.version,
		StartTime:     h.startTime.UTC().Format(time.RFC3339),
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Goroutines:    runtime.NumGoroutine(),
		Engine: EngineMetrics{
			Modes:          len(theory.Modes()),
			AnalysisModes:  len(theory.AnalysisModes()),
			ChordShapes:    len(voicing.Shapes()),
			Qualities:      len(voicing.Qualities()),
			MaxVoicings:    voicing.MaxVoicings,
			RhythmPatterns: voicing.RhythmPatternNames(),
		},
	})
}
