package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

func newAnalyzeCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <progression>",
		Short: "Find the mode that best explains a chord progression",
		Long: `Analyze a chord progression and report its tonal center and mode.

Examples:
  harmony analyze "Am F C G"
  harmony analyze "D C G D" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.harmony.AnalyzeProgression(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if app.jsonOutput {
				return printJSON(w, result)
			}

			bold.Fprintf(w, "%s %s\n", result.BestRoot, result.ModeName)
			fmt.Fprintf(w, "Chords:     %s\n", strings.Join(result.Chords, " "))
			fmt.Fprintf(w, "Confidence: %.2f\n", result.Confidence)
			if len(result.BorrowedChords) > 0 {
				warning.Fprintf(w, "Borrowed:   %s\n", strings.Join(result.BorrowedChords, ", "))
			}
			info.Fprintln(w, result.Reason)
			return nil
		},
	}
}

func newScaleCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "scale <root> [mode]",
		Short: "List the notes of a mode",
		Long: `List the seven notes of a mode on a root. The mode defaults to major.

Examples:
  harmony scale D dorian
  harmony scale Bb lydian`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.harmony.Scale(cmd.Context(), args[0], modeArg(args))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if app.jsonOutput {
				return printJSON(w, resp)
			}

			if resp.Fallback {
				warning.Fprintf(w, "Unknown mode %q, using %s\n", resp.Requested, resp.Mode.Name)
			}
			bold.Fprintf(w, "%s %s\n", resp.Root, resp.Mode.Name)
			fmt.Fprintln(w, theory.JoinNotes(resp.Notes))
			info.Fprintf(w, "Characteristic note: %s\n", resp.CharacteristicNote)
			return nil
		},
	}
}

func newChordsCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "chords <root> [mode]",
		Short: "List the diatonic triads of a mode",
		Long: `List the seven triads built on each degree of a mode.

Examples:
  harmony chords C major
  harmony chords E phrygian`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.harmony.ModeChords(cmd.Context(), args[0], modeArg(args))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if app.jsonOutput {
				return printJSON(w, resp)
			}

			if resp.Fallback {
				warning.Fprintf(w, "Unknown mode %q, using %s\n", resp.Requested, resp.ModeName)
			}
			bold.Fprintf(w, "%s %s\n", resp.Root, resp.ModeName)
			for _, c := range resp.Chords {
				fmt.Fprintf(w, "  %-5s %-8s %s\n", c.Numeral, c.Name, faint.Sprint(c.Function))
			}
			return nil
		},
	}
}

func newParseChordCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "chord <symbol>",
		Short: "Parse a chord symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.harmony.ParseChord(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if app.jsonOutput {
				return printJSON(w, resp)
			}

			bold.Fprintf(w, "%s\n", resp.Symbol)
			fmt.Fprintf(w, "Root:    %s\n", resp.Root)
			fmt.Fprintf(w, "Quality: %s\n", resp.Quality)
			fmt.Fprintf(w, "Tones:   %s\n", theory.JoinNotes(resp.Tones))
			return nil
		},
	}
}

func modeArg(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	return theory.ModeMajor
}
