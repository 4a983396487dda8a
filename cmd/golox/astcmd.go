package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"golox/internal/ast"
	"golox/internal/diag"
	"golox/internal/parser"
	"golox/internal/scanner"
)

func newASTCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ast <file>",
		Short: "Scan and parse a source file and print its AST as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			var diagBuf bytes.Buffer
			reporter := diag.New(&diagBuf)
			toks := scanner.New(string(source), reporter).ScanTokens()
			stmts := parser.New(toks, reporter).Parse()

			nodes := make([]map[string]any, len(stmts))
			for i, s := range stmts {
				nodes[i] = ast.NodeToMap(s)
			}

			if err := printJSON(map[string]any{
				"statements":  nodes,
				"diagnostics": diagLines(&diagBuf),
			}); err != nil {
				return err
			}

			if reporter.HadError() {
				os.Exit(exitScanOrParseError)
			}
			return nil
		},
	}
}
