package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/Conceptual-Machines/magda-harmony/internal/config"
	"github.com/Conceptual-Machines/magda-harmony/internal/models"
	"github.com/Conceptual-Machines/magda-harmony/internal/services"
)

const chordTab = "e|---0---|\nB|---1---|\nG|---0---|\nD|---2---|\nA|---3---|\nE|-------|"

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := services.NewHarmonyService(&config.Config{MaxRequestText: 200, DefaultVoicingCount: 4}, nil)

	router := gin.New()
	chat := NewChatHandler(svc)
	analysis := NewAnalysisHandler(svc)
	tabs := NewTabHandler(svc)
	theory := NewTheoryHandler(svc)
	voicings := NewVoicingHandler(svc)

	router.POST("/chat/enrich", chat.Enrich)
	router.POST("/analysis/progression", analysis.AnalyzeProgression)
	router.POST("/tabs/parse", tabs.ParseTab)
	router.GET("/theory/scales/:root/:mode", theory.Scale)
	router.GET("/theory/chords/:root/:mode", theory.ModeChords)
	router.POST("/theory/chords/parse", theory.ParseChord)
	router.POST("/voicings", voicings.Generate)
	router.POST("/voicings/constraints", voicings.ParseConstraints)
	router.POST("/voicings/midi", voicings.MIDI)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reader = bytes.NewBuffer(nil)
	case string:
		reader = bytes.NewBufferString(b)
	default:
		jsonBody, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func TestEnrichHandler(t *testing.T) {
	router := setupTestRouter()

	tests := []struct {
		name       string
		text       string
		analysis   bool
		tab        bool
		identified interface{}
	}{
		{"progression", "the chorus goes C G Am F", true, false, nil},
		{"tab", "check this out\n" + chordTab, false, true, "C Major"},
		{"nothing musical", "thanks for the help!", false, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, "/chat/enrich", models.TextRequest{Text: tt.text})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			response := decode(t, w)
			require.Contains(t, response, "analysis")
			require.Contains(t, response, "tab")
			assert.Equal(t, tt.analysis, response["analysis"] != nil)
			assert.Equal(t, tt.tab, response["tab"] != nil)
			assert.Equal(t, tt.identified, response["identifiedChord"])
		})
	}
}

func TestEnrichRejectsBadRequests(t *testing.T) {
	router := setupTestRouter()

	w := doRequest(t, router, http.MethodPost, "/chat/enrich", `{"text": ""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, codeInvalidRequest, decode(t, w)["code"])

	w = doRequest(t, router, http.MethodPost, "/chat/enrich", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	long := bytes.Repeat([]byte("C "), 150)
	w = doRequest(t, router, http.MethodPost, "/chat/enrich", models.TextRequest{Text: string(long)})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, codeTextTooLong, decode(t, w)["code"])
}

func TestAnalyzeProgressionHandler(t *testing.T) {
	router := setupTestRouter()

	w := doRequest(t, router, http.MethodPost, "/analysis/progression", models.TextRequest{Text: "D C G D"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	response := decode(t, w)
	assert.Equal(t, "D", response["bestRoot"])
	assert.Equal(t, "mixolydian", response["bestMode"])

	w = doRequest(t, router, http.MethodPost, "/analysis/progression", models.TextRequest{Text: "no chords at all"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	response = decode(t, w)
	assert.Equal(t, codeNoChordsFound, response["code"])
	assert.NotEmpty(t, response["suggestions"])
}

func TestParseTabHandler(t *testing.T) {
	router := setupTestRouter()

	w := doRequest(t, router, http.MethodPost, "/tabs/parse", models.TabRequest{Text: chordTab})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	response := decode(t, w)
	assert.Equal(t, true, response["detected"])
	assert.Equal(t, "C Major", response["identifiedChord"])

	w = doRequest(t, router, http.MethodPost, "/tabs/parse", models.TabRequest{Text: "plain words"})
	require.Equal(t, http.StatusOK, w.Code)
	response = decode(t, w)
	assert.Equal(t, false, response["detected"])
	assert.Nil(t, response["tab"])
}

func TestTheoryHandlers(t *testing.T) {
	router := setupTestRouter()

	tests := []struct {
		name   string
		path   string
		status int
		check  func(t *testing.T, response map[string]interface{})
	}{
		{
			name:   "dorian scale",
			path:   "/theory/scales/D/dorian",
			status: http.StatusOK,
			check: func(t *testing.T, response map[string]interface{}) {
				assert.Equal(t, []interface{}{"D", "E", "F", "G", "A", "B", "C"}, response["notes"])
				assert.Equal(t, "B", response["characteristicNote"])
				assert.Equal(t, false, response["fallback"])
			},
		},
		{
			name:   "sharp root",
			path:   "/theory/scales/F%23/major",
			status: http.StatusOK,
			check: func(t *testing.T, response map[string]interface{}) {
				assert.Equal(t, "F#", response["root"])
			},
		},
		{
			name:   "unknown mode falls back",
			path:   "/theory/chords/C/bebop",
			status: http.StatusOK,
			check: func(t *testing.T, response map[string]interface{}) {
				assert.Equal(t, true, response["fallback"])
				assert.Equal(t, "major", response["mode"])
				assert.Len(t, response["chords"], 7)
			},
		},
		{
			name:   "invalid root",
			path:   "/theory/scales/H/major",
			status: http.StatusBadRequest,
			check: func(t *testing.T, response map[string]interface{}) {
				assert.Equal(t, codeInvalidNote, response["code"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodGet, tt.path, nil)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			tt.check(t, decode(t, w))
		})
	}
}

func TestParseChordHandler(t *testing.T) {
	router := setupTestRouter()

	w := doRequest(t, router, http.MethodPost, "/theory/chords/parse", models.ChordParseRequest{Symbol: "Am7"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	response := decode(t, w)
	assert.Equal(t, "A", response["root"])
	assert.Equal(t, "minor", response["quality"])
	assert.Equal(t, []interface{}{"A", "C", "E", "G"}, response["tones"])

	w = doRequest(t, router, http.MethodPost, "/theory/chords/parse", models.ChordParseRequest{Symbol: "xyz"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_CHORD", decode(t, w)["code"])
}

func TestGenerateVoicingsHandler(t *testing.T) {
	router := setupTestRouter()

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"symbol", `{"chordInput": "C"}`, http.StatusOK, ""},
		{"structured", `{"chordInput": {"root": "A", "quality": "minor"}, "count": 2}`, http.StatusOK, ""},
		{"piano", `{"instrument": "piano", "chordInput": "G7"}`, http.StatusOK, ""},
		{"invalid chord", `{"chordInput": "Q"}`, http.StatusBadRequest, "INVALID_CHORD"},
		{"invalid tuning", `{"chordInput": "C", "tuning": "DADGAD"}`, http.StatusBadRequest, "INVALID_TUNING"},
		{"nothing fits", `{"chordInput": "Bm", "constraintText": "up to fret 3"}`, http.StatusNotFound, "NO_VOICINGS_FOUND"},
		{"malformed chord input", `{"chordInput": 7}`, http.StatusBadRequest, codeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, "/voicings", tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())

			response := decode(t, w)
			if tt.code != "" {
				assert.Equal(t, tt.code, response["code"])
				return
			}
			voicings, ok := response["voicings"].([]interface{})
			require.True(t, ok)
			assert.NotEmpty(t, voicings)
			assert.LessOrEqual(t, len(voicings), 4)
			assert.Contains(t, response, "metadata")
		})
	}
}

func TestNoVoicingsCarriesSuggestions(t *testing.T) {
	router := setupTestRouter()

	w := doRequest(t, router, http.MethodPost, "/voicings", `{"chordInput": "Bm", "constraintText": "up to fret 3"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	response := decode(t, w)
	assert.NotEmpty(t, response["suggestions"])
}

func TestParseConstraintsHandler(t *testing.T) {
	router := setupTestRouter()

	w := doRequest(t, router, http.MethodPost, "/voicings/constraints", models.TextRequest{Text: "no barre chords please"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	response := decode(t, w)
	assert.Equal(t, false, response["empty"])
	constraints, ok := response["constraints"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, constraints["avoidBarre"])

	w = doRequest(t, router, http.MethodPost, "/voicings/constraints", models.TextRequest{Text: "hello"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["empty"])
}

func TestMIDIHandler(t *testing.T) {
	router := setupTestRouter()

	w := doRequest(t, router, http.MethodPost, "/voicings/midi", `{"chordInput": "F#m", "tempo": 100, "strum": true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, midiContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".mid")

	s, err := smf.ReadFrom(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.NotEmpty(t, s.Tracks)

	w = doRequest(t, router, http.MethodPost, "/voicings/midi", `{"chordInput": "F#aug"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodPost, "/voicings/midi", `{"chordInput": "C", "pattern": "polka"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, codeInvalidPattern, decode(t, w)["code"])
}

func TestMIDIFilename(t *testing.T) {
	tests := []struct {
		chord    string
		expected string
	}{
		{"C Major", "C_Major.mid"},
		{"F# Minor", "Fs_Minor.mid"},
		{"", "voicings.mid"},
	}

	for _, tt := range tests {
		t.Run(tt.chord, func(t *testing.T) {
			assert.Equal(t, tt.expected, midiFilename(tt.chord))
		})
	}
}

func TestGetMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/metrics", NewMetricsHandler("test").GetMetrics)

	w := doRequest(t, router, http.MethodGet, "/api/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response MetricsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "test", response.Version)
	assert.GreaterOrEqual(t, response.UptimeSeconds, int64(0))
	assert.Equal(t, 9, response.Engine.Modes)
	assert.Equal(t, 4, response.Engine.MaxVoicings)
	assert.Positive(t, response.Engine.ChordShapes)
	assert.Contains(t, response.Engine.RhythmPatterns, "whole")
}
