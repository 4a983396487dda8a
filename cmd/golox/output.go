package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// diagLines splits whatever a diag.Reporter wrote into individual
// diagnostic lines, for embedding in JSON tooling output. The
// Reporter's own text format is the canonical one; this just reuses
// it rather than duplicating diagnostic formatting logic.
func diagLines(buf *bytes.Buffer) []string {
	text := strings.TrimRight(buf.String(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func printDiags(buf *bytes.Buffer) {
	if buf.Len() == 0 {
		return
	}
	fmt.Fprint(os.Stderr, buf.String())
}
