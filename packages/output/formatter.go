package output

import (
	"fmt"
	"io"

	"github.com/smokecheck/smokecheck/packages/core/runner"
)

// Formatter renders one run result to a writer.
type Formatter interface {
	Format(w io.Writer, result *runner.RunResult) error
}

// New returns the formatter for a format name: "json", "tap", or "junit".
func New(format string) (Formatter, error) {
	switch format {
	case "json":
		return &JSONFormatter{}, nil
	case "tap":
		return &TAPFormatter{}, nil
	case "junit":
		return &JUnitFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
