package assertions

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smokecheck/smokecheck/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createResponse(statusCode int, body string, headerLines []string) *http.Response {
	return &http.Response{
		StatusCode:  statusCode,
		HeaderLines: headerLines,
		Body:        []byte(body),
		Duration:    100 * time.Millisecond,
	}
}

func TestBodyContains(t *testing.T) {
	resp := createResponse(200, "here are some search results for you", nil)

	assert.True(t, BodyContains(resp, "search").Passed)
	assert.True(t, BodyContains(resp, "search\\s+results").Passed)
	assert.False(t, BodyContains(resp, "no match here").Passed)
}

func TestBodyContains_LiteralFallback(t *testing.T) {
	// "a[1" is not a valid regex, so it must match as a literal substring
	resp := createResponse(200, "value a[1 present", nil)
	assert.True(t, BodyContains(resp, "a[1").Passed)
}

func TestHeaderContains(t *testing.T) {
	resp := createResponse(200, "", []string{
		"Content-Type: text/html",
		"X-Frame-Options: DENY",
	})

	assert.True(t, HeaderContains(resp, "X-Frame-Options: DENY").Passed)
	assert.True(t, HeaderContains(resp, "text/(html|plain)").Passed)
	assert.False(t, HeaderContains(resp, "Strict-Transport-Security").Passed)
}

func TestCodeEquals(t *testing.T) {
	resp := createResponse(404, "", nil)

	assert.True(t, CodeEquals(resp, 404).Passed)

	result := CodeEquals(resp, 200)
	assert.False(t, result.Passed)
	assert.Equal(t, "got 404", result.Detail)
}

func TestCodeOK(t *testing.T) {
	assert.True(t, CodeOK(createResponse(200, "", nil)).Passed)
	assert.True(t, CodeOK(createResponse(204, "", nil)).Passed)
	assert.True(t, CodeOK(createResponse(299, "", nil)).Passed)
	assert.False(t, CodeOK(createResponse(300, "", nil)).Passed)
	assert.False(t, CodeOK(createResponse(500, "", nil)).Passed)
}

func TestNoResponse(t *testing.T) {
	assert.True(t, NoResponse(http.NoResponse()).Passed)
	assert.False(t, NoResponse(createResponse(200, "", nil)).Passed)
}

func TestNoResponse_OnlyNoResponsePasses(t *testing.T) {
	// Against the sentinel record, every other check must fail.
	resp := http.NoResponse()

	assert.False(t, BodyContains(resp, "anything").Passed)
	assert.False(t, HeaderContains(resp, "anything").Passed)
	assert.False(t, CodeEquals(resp, 200).Passed)
	assert.False(t, CodeOK(resp).Passed)
	assert.True(t, NoResponse(resp).Passed)

	// Not even patterns matching the empty string, or the sentinel's own
	// numeric value, sneak past.
	assert.False(t, BodyContains(resp, ".*").Passed)
	assert.False(t, HeaderContains(resp, ".*").Passed)
	assert.False(t, CodeEquals(resp, 0).Passed)
}

func TestJSONPath(t *testing.T) {
	resp := createResponse(200, `{"user": {"name": "John"}, "items": [1, 2, 3]}`, nil)

	assert.True(t, JSONPath(resp, "user.name", "John").Passed)
	assert.True(t, JSONPath(resp, "items.1", "2").Passed)
	assert.False(t, JSONPath(resp, "user.name", "Jane").Passed)
	assert.False(t, JSONPath(resp, "user.missing", "x").Passed)
}

func TestJSONPath_NotJSON(t *testing.T) {
	resp := createResponse(200, "", nil)
	result := JSONPath(resp, "user.name", "John")
	assert.False(t, result.Passed)
}

func TestSchema(t *testing.T) {
	schema := `{
		"type": "object",
		"properties": {"status": {"type": "string"}},
		"required": ["status"]
	}`

	tmpDir := t.TempDir()
	schemaFile := filepath.Join(tmpDir, "schema.json")
	require.NoError(t, os.WriteFile(schemaFile, []byte(schema), 0644))

	ok := Schema(createResponse(200, `{"status": "up"}`, nil), "schema.json", tmpDir)
	assert.True(t, ok.Passed)

	bad := Schema(createResponse(200, `{"other": 1}`, nil), "schema.json", tmpDir)
	assert.False(t, bad.Passed)
	assert.Contains(t, bad.Detail, "schema validation failed")
}
