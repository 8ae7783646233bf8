package assertions

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/smokecheck/smokecheck/packages/http"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// Result is the outcome of a single check.
type Result struct {
	Passed bool
	Detail string // set when the check failed, or when context helps a reader
}

func pass() Result {
	return Result{Passed: true}
}

func fail(format string, args ...any) Result {
	return Result{Passed: false, Detail: fmt.Sprintf(format, args...)}
}

// matchPattern reports whether pattern occurs in text. The pattern is treated
// as a regular expression when it compiles, and as a literal substring
// otherwise. Looseness is deliberate: smoke checks grep, they don't diff.
func matchPattern(text, pattern string) bool {
	if re, err := regexp.Compile(pattern); err == nil {
		return re.MatchString(text)
	}
	return strings.Contains(text, pattern)
}

// BodyContains checks that pattern occurs anywhere in the response body.
// Against the no-response record it always fails, even for patterns that
// match the empty string.
func BodyContains(resp *http.Response, pattern string) Result {
	if resp.IsNoResponse() {
		return fail("no response")
	}
	if matchPattern(resp.BodyString(), pattern) {
		return pass()
	}
	return fail("pattern not found in body")
}

// HeaderContains checks that pattern occurs in the concatenated header lines.
func HeaderContains(resp *http.Response, pattern string) Result {
	if resp.IsNoResponse() {
		return fail("no response")
	}
	if matchPattern(resp.HeaderText(), pattern) {
		return pass()
	}
	return fail("pattern not found in headers")
}

// CodeEquals checks the status code exactly. The no-response record never
// matches, not even a literal 0: only the no-response assertion accepts it.
func CodeEquals(resp *http.Response, code int) Result {
	if resp.IsNoResponse() {
		return fail("no response")
	}
	if resp.StatusCode == code {
		return pass()
	}
	return fail("got %d", resp.StatusCode)
}

// CodeOK checks that the status code is in [200,300).
func CodeOK(resp *http.Response) Result {
	if resp.IsSuccess() {
		return pass()
	}
	if resp.IsNoResponse() {
		return fail("no response")
	}
	return fail("got %d", resp.StatusCode)
}

// NoResponse checks that the request obtained no HTTP response at all.
func NoResponse(resp *http.Response) Result {
	if resp.IsNoResponse() {
		return pass()
	}
	return fail("got %d", resp.StatusCode)
}

// JSONPath checks that the value at a gjson path renders to expected.
// Array indexes use gjson dot notation, e.g. "items.0.id".
func JSONPath(resp *http.Response, path, expected string) Result {
	if resp.IsNoResponse() {
		return fail("no response")
	}
	body := gjson.ParseBytes(resp.Body)
	if !body.Exists() {
		return fail("body is not JSON")
	}
	value := body.Get(path)
	if !value.Exists() {
		return fail("path %q not found", path)
	}
	if value.String() == expected {
		return pass()
	}
	return fail("got %v", value.Value())
}

// Schema validates the response body against a JSON Schema file. Relative
// schema paths resolve against baseDir.
func Schema(resp *http.Response, schemaPath, baseDir string) Result {
	if resp.IsNoResponse() {
		return fail("no response")
	}
	if !filepath.IsAbs(schemaPath) && baseDir != "" {
		schemaPath = filepath.Join(baseDir, schemaPath)
	}

	var doc any
	if err := json.Unmarshal(resp.Body, &doc); err != nil {
		return fail("body is not JSON: %v", err)
	}

	schemaLoader := gojsonschema.NewReferenceLoader("file://" + schemaPath)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fail("schema validation error: %v", err)
	}
	if result.Valid() {
		return pass()
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fail("schema validation failed: %s", strings.Join(errs, "; "))
}
