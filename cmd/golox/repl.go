package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"golox/internal/config"
	"golox/internal/diag"
	"golox/internal/parser"
	"golox/internal/runtime"
	"golox/internal/scanner"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorGray   = "\033[90m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func newReplCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive read-eval-print loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(*cfg)
		},
	}
}

func runREPL(cfg config.Config) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt(cfg, false),
		HistoryFile:       cfg.HistoryFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "%s%sgolox REPL%s %s(type 'exit' or Ctrl+D to quit)%s\n\n",
		colorBold, colorCyan, colorReset, colorGray, colorReset)

	interp := runtime.New(rl.Stdout(), cfg.MaxCallDepth)
	var accumulated strings.Builder
	braceDepth := 0

	for {
		rl.SetPrompt(prompt(cfg, braceDepth > 0))

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if braceDepth > 0 {
					accumulated.Reset()
					braceDepth = 0
					continue
				}
				fmt.Fprintf(rl.Stdout(), "\n%s(use 'exit' or Ctrl+D to quit)%s\n", colorGray, colorReset)
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		if braceDepth == 0 && strings.TrimSpace(line) == "exit" {
			break
		}

		braceDepth += strings.Count(line, "{") - strings.Count(line, "}")
		accumulated.WriteString(line)
		accumulated.WriteString("\n")
		if braceDepth > 0 {
			continue
		}
		braceDepth = 0

		source := accumulated.String()
		accumulated.Reset()
		if strings.TrimSpace(source) == "" {
			continue
		}

		evalREPLLine(rl.Stderr(), interp, source, cfg.Color)
	}
	return nil
}

func evalREPLLine(stderr io.Writer, interp *runtime.Interpreter, source string, color bool) {
	var diagBuf bytes.Buffer
	reporter := diag.New(&diagBuf)

	toks := scanner.New(source, reporter).ScanTokens()
	stmts := parser.New(toks, reporter).Parse()
	if reporter.HadError() {
		writeColored(stderr, diagBuf.String(), color)
		return
	}

	if err := interp.Run(stmts); err != nil {
		var out bytes.Buffer
		if rtErr, ok := err.(diag.RuntimeErrorer); ok {
			diag.New(&out).RuntimeError(rtErr)
		} else {
			fmt.Fprintln(&out, err)
		}
		writeColored(stderr, out.String(), color)
	}
}

func writeColored(w io.Writer, text string, color bool) {
	if !color {
		fmt.Fprint(w, text)
		return
	}
	fmt.Fprint(w, colorRed+text+colorReset)
}

func prompt(cfg config.Config, continuation bool) string {
	if continuation {
		return colorGray + "...   " + colorReset
	}
	if !cfg.Color {
		return "golox> "
	}
	return colorGreen + "golox> " + colorReset
}
