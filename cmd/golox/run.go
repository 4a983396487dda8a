package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"golox/internal/config"
	"golox/internal/diag"
	"golox/internal/parser"
	"golox/internal/runtime"
	"golox/internal/scanner"
)

// exitScanOrParseError and exitRuntimeError are the two non-zero exit
// codes the driver's contract specifies: 65 for a scan/parse-time
// error, 70 for a runtime error.
const (
	exitScanOrParseError = 65
	exitRuntimeError     = 70
)

func newRunCmd(cfg *config.Config) *cobra.Command {
	var maxCallDepth int

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Scan, parse, and interpret a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			return runFile(string(source), maxCallDepth)
		},
	}
	cmd.Flags().IntVar(&maxCallDepth, "max-call-depth", cfg.MaxCallDepth, "maximum interpreter call depth before reporting a stack overflow")
	return cmd
}

func runFile(source string, maxCallDepth int) error {
	var diagBuf bytes.Buffer
	reporter := diag.New(&diagBuf)

	toks := scanner.New(source, reporter).ScanTokens()
	stmts := parser.New(toks, reporter).Parse()
	if reporter.HadError() {
		printDiags(&diagBuf)
		os.Exit(exitScanOrParseError)
	}

	interp := runtime.New(os.Stdout, maxCallDepth)
	if err := interp.Run(stmts); err != nil {
		rtErr, ok := err.(diag.RuntimeErrorer)
		if !ok {
			return err
		}
		reporter.RuntimeError(rtErr)
		printDiags(&diagBuf)
		os.Exit(exitRuntimeError)
	}
	return nil
}
