package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newTabCmd(app *cli) *cobra.Command {
	var order []int

	cmd := &cobra.Command{
		Use:   "tab <file|->",
		Short: "Parse guitar tablature and name its chord",
		Long: `Parse ASCII guitar tablature from a file, or from stdin with "-".

Examples:
  harmony tab riff.txt
  cat chord.txt | harmony tab -
  harmony tab riff.txt --order 0,5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			resp, err := app.harmony.ParseTab(cmd.Context(), text, order)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if app.jsonOutput {
				return printJSON(w, resp)
			}
			if resp.Tab == nil {
				return fmt.Errorf("no tablature found")
			}

			bold.Fprintf(w, "%d lines, %d notes, %d measures\n",
				len(resp.Tab.Lines), len(resp.Tab.Notes), len(resp.Tab.Measures))
			for _, l := range resp.Tab.Lines {
				fmt.Fprintf(w, "  %-2s string %d %s\n", l.Label, l.String, faint.Sprint(l.Resolution))
			}
			if resp.IdentifiedChord != nil {
				success.Fprintf(w, "Chord: %s\n", *resp.IdentifiedChord)
			}
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&order, "order", nil, "String index (0 = low E) for each tab line, top to bottom")
	return cmd
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
