package main

import (
	"encoding/json"
	"io"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/magda-harmony/internal/config"
	"github.com/Conceptual-Machines/magda-harmony/internal/services"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	bold    = color.New(color.Bold)
	success = color.New(color.FgGreen)
	info    = color.New(color.FgCyan)
	warning = color.New(color.FgYellow)
	faint   = color.New(color.Faint)
)

// cli holds state shared by every subcommand
type cli struct {
	jsonOutput bool
	noColor    bool
	harmony    *services.HarmonyService
}

func newRootCmd() *cobra.Command {
	app := &cli{}

	root := &cobra.Command{
		Use:   "harmony",
		Short: "Music theory and chord voicing engine",
		Long: `harmony analyzes chord progressions, parses guitar tabs, lists scales
and diatonic chords, and generates guitar and piano voicings.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if app.noColor {
				color.NoColor = true
			}
			_ = godotenv.Load()
			app.harmony = services.NewHarmonyService(config.Load(), nil)
		},
	}

	root.PersistentFlags().BoolVar(&app.jsonOutput, "json", false, "Print results as JSON")
	root.PersistentFlags().BoolVar(&app.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newAnalyzeCmd(app),
		newScaleCmd(app),
		newChordsCmd(app),
		newParseChordCmd(app),
		newTabCmd(app),
		newVoicingsCmd(app),
		newMCPCmd(app),
	)
	return root
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
