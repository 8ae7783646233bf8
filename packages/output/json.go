package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/smokecheck/smokecheck/packages/core/runner"
)

// JSONOutput is the complete JSON output structure
type JSONOutput struct {
	Summary  JSONSummary `json:"summary"`
	Checks   []JSONCheck `json:"checks"`
	Script   string      `json:"script"`
	Duration float64     `json:"duration"`
	Time     string      `json:"time"`
}

// JSONSummary is the run summary
type JSONSummary struct {
	Total  int  `json:"total"`
	Passed int  `json:"passed"`
	Failed int  `json:"failed"`
	OK     bool `json:"ok"`
}

// JSONCheck is a single check result
type JSONCheck struct {
	Description string `json:"description"`
	Passed      bool   `json:"passed"`
	Detail      string `json:"detail,omitempty"`
}

// JSONFormatter renders a run result as indented JSON
type JSONFormatter struct{}

func (f *JSONFormatter) Format(w io.Writer, result *runner.RunResult) error {
	out := JSONOutput{
		Summary: JSONSummary{
			Total:  result.Passed + result.Failed,
			Passed: result.Passed,
			Failed: result.Failed,
			OK:     result.Failed == 0,
		},
		Checks:   make([]JSONCheck, 0, len(result.Checks)),
		Script:   result.Script,
		Duration: float64(result.Duration.Milliseconds()),
		Time:     time.Now().Format(time.RFC3339),
	}

	for _, c := range result.Checks {
		out.Checks = append(out.Checks, JSONCheck{
			Description: c.Description,
			Passed:      c.Passed,
			Detail:      c.Detail,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
