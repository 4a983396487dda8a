package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"golox/internal/diag"
	"golox/internal/scanner"
	"golox/internal/token"
)

func newTokensCmd() *cobra.Command {
	var jsonMode bool

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Scan a source file and print its token stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			var diagBuf bytes.Buffer
			reporter := diag.New(&diagBuf)
			toks := scanner.New(string(source), reporter).ScanTokens()

			if jsonMode {
				if err := printJSON(map[string]any{
					"tokens":      tokensToJSON(toks),
					"diagnostics": diagLines(&diagBuf),
				}); err != nil {
					return err
				}
			} else {
				printTokensText(toks)
				printDiags(&diagBuf)
			}

			if reporter.HadError() {
				os.Exit(exitScanOrParseError)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonMode, "json", false, "print tokens as JSON")
	return cmd
}

func printTokensText(toks []token.Token) {
	for _, tok := range toks {
		fmt.Printf("%-14s %-20q %d:%d\n", tok.Type, tok.Lexeme, tok.Span.Start.Line, tok.Span.Start.Column)
	}
}

func tokensToJSON(toks []token.Token) []map[string]any {
	out := make([]map[string]any, len(toks))
	for i, tok := range toks {
		out[i] = map[string]any{
			"type":   tok.Type.String(),
			"lexeme": tok.Lexeme,
			"line":   tok.Span.Start.Line,
			"column": tok.Span.Start.Column,
			"offset": tok.Span.Start.Offset,
		}
	}
	return out
}
