// Command golox is the CLI entry point for the interpreter: run a
// script, start an interactive REPL, or dump the scanner/parser's
// intermediate output for debugging.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"golox/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "golox: %v\n", err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:   "golox",
		Short: "A tree-walking interpreter for the lox language",
	}

	root.AddCommand(newRunCmd(&cfg))
	root.AddCommand(newReplCmd(&cfg))
	root.AddCommand(newTokensCmd())
	root.AddCommand(newASTCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
