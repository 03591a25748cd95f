// Command harmony runs the harmony engine from the terminal.
//
// Usage:
//
//	harmony analyze "Am F C G"
//	harmony scale D dorian
//	harmony chords A minor
//	harmony tab riff.txt
//	harmony voicings Bm7 --constraints "no barre" --midi bm7.mid
//	harmony mcp        # serve MCP over stdio
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
