package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/Conceptual-Machines/magda-harmony/internal/analysis"
	"github.com/Conceptual-Machines/magda-harmony/internal/config"
	"github.com/Conceptual-Machines/magda-harmony/internal/logger"
	"github.com/Conceptual-Machines/magda-harmony/internal/metrics"
	"github.com/Conceptual-Machines/magda-harmony/internal/models"
	"github.com/Conceptual-Machines/magda-harmony/internal/tab"
	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
	"github.com/Conceptual-Machines/magda-harmony/internal/voicing"
)

// Engine operation names used in logs and metrics
const (
	OpEnrich           = "enrich"
	OpAnalyze          = "analyze_progression"
	OpParseTab         = "parse_tab"
	OpScale            = "scale"
	OpModeChords       = "mode_chords"
	OpParseChord       = "parse_chord"
	OpParseConstraints = "parse_constraints"
	OpGenerateVoicings = "generate_voicings"
	OpExportMIDI       = "export_midi"
)

var (
	ErrTextTooLong   = errors.New("text is too long")
	ErrNoChords      = errors.New("no chord symbols found")
	ErrInvalidRoot   = errors.New("invalid root note")
	ErrInvalidSymbol = errors.New("could not parse chord symbol")
)

// HarmonyService runs engine operations on behalf of the HTTP, MCP and CLI
// transports, applying request limits and recording metrics.
type HarmonyService struct {
	maxTextLength int
	defaultCount  int
	recorder      metrics.Recorder
}

func NewHarmonyService(cfg *config.Config, recorder metrics.Recorder) *HarmonyService {
	if recorder == nil {
		recorder = metrics.Multi{}
	}
	return &HarmonyService{
		maxTextLength: cfg.MaxRequestText,
		defaultCount:  cfg.DefaultVoicingCount,
		recorder:      recorder,
	}
}

// Enrich extracts everything the engine can find in a chat message: a modal
// analysis of any chord symbols and a parsed tab with its chord name.
func (s *HarmonyService) Enrich(ctx context.Context, text string) (*models.EnrichResponse, error) {
	start := time.Now()
	if err := s.checkText(text); err != nil {
		s.observe(ctx, OpEnrich, start, metrics.OutcomeError, nil)
		return nil, err
	}

	resp := &models.EnrichResponse{}
	prose := text
	if tabResp := parseTab(text, nil); tabResp.Tab != nil {
		resp.Tab = tabResp.Tab
		resp.IdentifiedChord = tabResp.IdentifiedChord
		prose = tab.StripTab(text)
	}
	resp.Analysis = analysis.AnalyzeProgression(prose)

	outcome := metrics.OutcomeOK
	if resp.Analysis == nil && resp.Tab == nil {
		outcome = metrics.OutcomeNotFound
	}
	s.observe(ctx, OpEnrich, start, outcome, logger.Fields{
		"analysis": resp.Analysis != nil,
		"tab":      resp.Tab != nil,
	})
	return resp, nil
}

// AnalyzeProgression explains the chord symbols in text. It returns
// ErrNoChords when nothing in text parses as a chord.
func (s *HarmonyService) AnalyzeProgression(ctx context.Context, text string) (*analysis.ModalAnalysis, error) {
	start := time.Now()
	if err := s.checkText(text); err != nil {
		s.observe(ctx, OpAnalyze, start, metrics.OutcomeError, nil)
		return nil, err
	}

	result := analysis.AnalyzeProgression(text)
	if result == nil {
		s.observe(ctx, OpAnalyze, start, metrics.OutcomeNotFound, nil)
		return nil, ErrNoChords
	}

	s.observe(ctx, OpAnalyze, start, metrics.OutcomeOK, logger.Fields{
		"chords": len(result.Chords),
		"mode":   result.BestMode,
	})
	return result, nil
}

// ParseTab detects and parses tablature. order optionally assigns a string
// index to each recognized line.
func (s *HarmonyService) ParseTab(ctx context.Context, text string, order []int) (*models.TabResponse, error) {
	start := time.Now()
	if err := s.checkText(text); err != nil {
		s.observe(ctx, OpParseTab, start, metrics.OutcomeError, nil)
		return nil, err
	}

	resp := parseTab(text, order)
	outcome := metrics.OutcomeOK
	if resp.Tab == nil {
		outcome = metrics.OutcomeNotFound
	}
	s.observe(ctx, OpParseTab, start, outcome, logger.Fields{"detected": resp.Detected})
	return resp, nil
}

func parseTab(text string, order []int) *models.TabResponse {
	resp := &models.TabResponse{Detected: tab.DetectTab(text)}
	if !resp.Detected && len(order) == 0 {
		return resp
	}
	resp.Tab = tab.ParseTabWithOrder(text, order)
	if resp.Tab == nil {
		return resp
	}
	if name, ok := tab.IdentifyChord(resp.Tab); ok {
		resp.IdentifiedChord = &name
	}
	return resp
}

// Scale returns the notes of mode on root. Unknown modes fall back to
// Ionian and are flagged.
func (s *HarmonyService) Scale(ctx context.Context, rootName, modeName string) (*models.ScaleResponse, error) {
	start := time.Now()
	root, ok := theory.ParseNote(rootName)
	if !ok {
		s.observe(ctx, OpScale, start, metrics.OutcomeError, nil)
		return nil, fmt.Errorf("%w: %q", ErrInvalidRoot, rootName)
	}

	res := theory.ResolveMode(modeName)
	notes := theory.ScaleNotes(root, res.Mode)
	s.observe(ctx, OpScale, start, metrics.OutcomeOK, logger.Fields{"mode": res.Mode.Key, "fallback": res.Fallback})

	return &models.ScaleResponse{
		Root:               root,
		Mode:               res.Mode,
		Requested:          res.Requested,
		Fallback:           res.Fallback,
		Notes:              notes[:],
		CharacteristicNote: res.Mode.CharacteristicNote(root),
	}, nil
}

// ModeChords builds the seven diatonic triads of mode on root
func (s *HarmonyService) ModeChords(ctx context.Context, rootName, modeName string) (*models.ChordsResponse, error) {
	start := time.Now()
	root, ok := theory.ParseNote(rootName)
	if !ok {
		s.observe(ctx, OpModeChords, start, metrics.OutcomeError, nil)
		return nil, fmt.Errorf("%w: %q", ErrInvalidRoot, rootName)
	}

	res := theory.ResolveMode(modeName)
	chords := theory.ModeChords(root, res.Mode)
	s.observe(ctx, OpModeChords, start, metrics.OutcomeOK, logger.Fields{"mode": res.Mode.Key, "fallback": res.Fallback})

	return &models.ChordsResponse{
		Root:      root,
		Mode:      res.Mode.Key,
		ModeName:  res.Mode.Name,
		Requested: res.Requested,
		Fallback:  res.Fallback,
		Chords:    chords[:],
	}, nil
}

// ParseChord parses one chord symbol
func (s *HarmonyService) ParseChord(ctx context.Context, symbol string) (*models.ChordParseResponse, error) {
	start := time.Now()
	chord, ok := theory.ParseChord(symbol)
	if !ok {
		s.observe(ctx, OpParseChord, start, metrics.OutcomeNotFound, nil)
		return nil, fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}

	s.observe(ctx, OpParseChord, start, metrics.OutcomeOK, logger.Fields{"quality": string(chord.Quality)})
	return &models.ChordParseResponse{
		ChordSymbol: chord,
		Intervals:   chord.Intervals(),
		Tones:       chord.Tones(),
	}, nil
}

// ParseConstraints reads voicing constraints out of free text
func (s *HarmonyService) ParseConstraints(ctx context.Context, text string) (voicing.Constraints, error) {
	start := time.Now()
	if err := s.checkText(text); err != nil {
		s.observe(ctx, OpParseConstraints, start, metrics.OutcomeError, nil)
		return voicing.Constraints{}, err
	}

	c := voicing.ParseConstraints(text)
	outcome := metrics.OutcomeOK
	if c.IsZero() {
		outcome = metrics.OutcomeNotFound
	}
	s.observe(ctx, OpParseConstraints, start, outcome, nil)
	return c, nil
}

// GenerateVoicings runs the voicing generator. Failures are
// *voicing.GenerationError values.
func (s *HarmonyService) GenerateVoicings(ctx context.Context, req voicing.Request) (*voicing.Response, error) {
	start := time.Now()
	resp, err := s.generate(req)
	s.observeGeneration(ctx, OpGenerateVoicings, start, resp, err)
	return resp, err
}

// ExportMIDI generates voicings and renders them as a Standard MIDI File
func (s *HarmonyService) ExportMIDI(ctx context.Context, req voicing.Request, opts voicing.MIDIOptions) ([]byte, *voicing.Response, error) {
	start := time.Now()
	if _, ok := voicing.GetRhythmPattern(opts.Pattern); !ok {
		s.observe(ctx, OpExportMIDI, start, metrics.OutcomeError, logger.Fields{"pattern": opts.Pattern})
		return nil, nil, fmt.Errorf("%w: %q", voicing.ErrUnknownPattern, opts.Pattern)
	}

	resp, err := s.generate(req)
	if err != nil {
		s.observeGeneration(ctx, OpExportMIDI, start, nil, err)
		return nil, nil, err
	}

	if opts.Name == "" {
		opts.Name = resp.Metadata.Chord
	}
	data, err := voicing.MIDIBytes(resp.Voicings, opts)
	if err != nil {
		s.observe(ctx, OpExportMIDI, start, metrics.OutcomeError, nil)
		return nil, nil, fmt.Errorf("failed to export MIDI: %w", err)
	}

	s.observeGeneration(ctx, OpExportMIDI, start, resp, nil)
	return data, resp, nil
}

func (s *HarmonyService) generate(req voicing.Request) (*voicing.Response, error) {
	if err := s.checkText(req.ConstraintText); err != nil {
		return nil, err
	}
	if req.Count <= 0 {
		req.Count = s.defaultCount
	}
	return voicing.Generate(req)
}

func (s *HarmonyService) observeGeneration(ctx context.Context, op string, start time.Time, resp *voicing.Response, err error) {
	if err != nil {
		outcome := metrics.OutcomeError
		fields := logger.Fields{"error": err.Error()}
		if genErr, ok := voicing.AsGenerationError(err); ok {
			fields["code"] = string(genErr.Code)
			if genErr.Code == voicing.CodeNoVoicingsFound {
				outcome = metrics.OutcomeNotFound
			}
		}
		s.observe(ctx, op, start, outcome, fields)
		return
	}
	s.observe(ctx, op, start, metrics.OutcomeOK, logger.Fields{
		"chord":      resp.Metadata.Chord,
		"instrument": string(resp.Metadata.Instrument),
		"returned":   resp.Metadata.ReturnedCount,
	})
}

func (s *HarmonyService) checkText(text string) error {
	if s.maxTextLength > 0 && utf8.RuneCountInString(text) > s.maxTextLength {
		return fmt.Errorf("%w: limit is %d characters", ErrTextTooLong, s.maxTextLength)
	}
	return nil
}

func (s *HarmonyService) observe(ctx context.Context, op string, start time.Time, outcome string, fields logger.Fields) {
	duration := time.Since(start)
	if fields == nil {
		fields = logger.Fields{}
	}
	fields["outcome"] = outcome
	logger.LogEngineCall(ctx, op, duration, fields)
	s.recorder.RecordEngineCall(ctx, op, outcome, duration)
}
