package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/magda-harmony/internal/voicing"
)

type voicingsOptions struct {
	instrument  string
	constraints string
	count       int
	lesson      bool
	midiPath    string
	tempo       float64
	strum       bool
	pattern     string
}

func newVoicingsCmd(app *cli) *cobra.Command {
	opts := voicingsOptions{}

	cmd := &cobra.Command{
		Use:   "voicings <chord>",
		Short: "Generate ranked guitar or piano voicings",
		Long: `Generate up to four ranked voicings for a chord symbol.

Examples:
  harmony voicings C
  harmony voicings Bm7 --constraints "no barre, frets 5 to 9"
  harmony voicings Cmaj7 --instrument piano --midi cmaj7.mid`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := voicing.Request{
				Instrument:     voicing.Instrument(opts.instrument),
				ChordInput:     voicing.Symbolic(args[0]),
				ConstraintText: opts.constraints,
				Count:          opts.count,
				LessonMode:     opts.lesson,
			}

			var resp *voicing.Response
			var err error
			if opts.midiPath != "" {
				var data []byte
				data, resp, err = app.harmony.ExportMIDI(cmd.Context(), req, voicing.MIDIOptions{
					Tempo:   opts.tempo,
					Strum:   opts.strum,
					Pattern: opts.pattern,
				})
				if err == nil {
					err = os.WriteFile(opts.midiPath, data, 0o644)
				}
			} else {
				resp, err = app.harmony.GenerateVoicings(cmd.Context(), req)
			}
			if err != nil {
				return describeError(err)
			}

			w := cmd.OutOrStdout()
			if app.jsonOutput {
				return printJSON(w, resp)
			}

			bold.Fprintf(w, "%s (%s)\n", resp.Metadata.Chord, resp.Metadata.Instrument)
			for _, warn := range resp.Metadata.Warnings {
				warning.Fprintf(w, "! %s\n", warn)
			}
			for i, v := range resp.Voicings {
				fmt.Fprintf(w, "%d. %-18s %-14s %-12s %s\n", i+1, voicingLabel(v), v.Position, v.Difficulty,
					faint.Sprintf("score %.2f", v.Scores.Total))
				if tip, ok := resp.Lessons[v.ID]; ok {
					info.Fprintf(w, "   %s\n", tip)
				}
			}
			if opts.midiPath != "" {
				success.Fprintf(w, "Wrote %s\n", opts.midiPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.instrument, "instrument", "i", string(voicing.InstrumentGuitar), "guitar or piano")
	cmd.Flags().StringVarP(&opts.constraints, "constraints", "c", "", "Constraints in plain English")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 0, "Number of voicings (1-4)")
	cmd.Flags().BoolVar(&opts.lesson, "lesson", false, "Show a playing tip for each voicing")
	cmd.Flags().StringVar(&opts.midiPath, "midi", "", "Also write the voicings to this MIDI file")
	cmd.Flags().Float64Var(&opts.tempo, "tempo", 90, "MIDI tempo in BPM")
	cmd.Flags().BoolVar(&opts.strum, "strum", false, "Strum guitar voicings in the MIDI file")
	cmd.Flags().StringVar(&opts.pattern, "pattern", voicing.DefaultPattern,
		"MIDI rhythm pattern: "+strings.Join(voicing.RhythmPatternNames(), ", "))
	return cmd
}

func voicingLabel(v voicing.Voicing) string {
	if v.Frets != nil {
		return v.Frets.String()
	}
	return fmt.Sprintf("%s [%s]", v.Inversion, strings.Join(v.Notes, " "))
}

// describeError folds generator suggestions into the error text
func describeError(err error) error {
	genErr, ok := voicing.AsGenerationError(err)
	if !ok || len(genErr.Suggestions) == 0 {
		return err
	}
	return fmt.Errorf("%s\n  try: %s", genErr.Message, strings.Join(genErr.Suggestions, "\n  try: "))
}
