package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/smokecheck/smokecheck/packages/core/runner"
)

// TAPFormatter renders a run result in TAP (Test Anything Protocol) format
type TAPFormatter struct{}

func (f *TAPFormatter) Format(w io.Writer, result *runner.RunResult) error {
	fmt.Fprintf(w, "TAP version 13\n")
	fmt.Fprintf(w, "1..%d\n", len(result.Checks))

	for i, c := range result.Checks {
		if c.Passed {
			fmt.Fprintf(w, "ok %d - %s\n", i+1, c.Description)
			continue
		}
		fmt.Fprintf(w, "not ok %d - %s\n", i+1, c.Description)
		if c.Detail != "" {
			fmt.Fprintf(w, "  ---\n")
			fmt.Fprintf(w, "  message: %s\n", escapeYAML(c.Detail))
			fmt.Fprintf(w, "  ...\n")
		}
	}

	fmt.Fprintln(w)
	return nil
}

func escapeYAML(s string) string {
	// Simple YAML escaping - wrap in quotes if contains special chars
	if strings.ContainsAny(s, ":\n\"'[]{}#&*!|>%@`") {
		s = strings.ReplaceAll(s, "\"", "\\\"")
		return "\"" + s + "\""
	}
	return s
}
