package capture

import (
	"regexp"

	"github.com/smokecheck/smokecheck/packages/http"
)

// Source identifies where a capture reads from.
type Source string

const (
	SourceBody   Source = "body"
	SourceHeader Source = "header"
)

// Extract applies a regular expression to the chosen part of the response
// and returns the first capture group, or the whole match when the
// expression has no groups. The second return is false when the expression
// is invalid or nothing matched.
func Extract(resp *http.Response, source Source, expr string) (string, bool) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return "", false
	}

	var text string
	switch source {
	case SourceHeader:
		text = resp.HeaderText()
	default:
		text = resp.BodyString()
	}

	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	if len(m) > 1 {
		return m[1], true
	}
	return m[0], true
}
