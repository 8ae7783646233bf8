package capture

import (
	"testing"

	"github.com/smokecheck/smokecheck/packages/http"
	"github.com/stretchr/testify/assert"
)

func TestExtract_FromBody(t *testing.T) {
	resp := &http.Response{
		StatusCode: 200,
		Body:       []byte(`<input name="csrf" value="tok-abc123">`),
	}

	value, ok := Extract(resp, SourceBody, `name="csrf" value="([^"]+)"`)
	assert.True(t, ok)
	assert.Equal(t, "tok-abc123", value)
}

func TestExtract_FromHeader(t *testing.T) {
	resp := &http.Response{
		StatusCode:  200,
		HeaderLines: []string{"Set-Cookie: csrftoken=xyz789; Path=/"},
	}

	value, ok := Extract(resp, SourceHeader, `csrftoken=([a-z0-9]+)`)
	assert.True(t, ok)
	assert.Equal(t, "xyz789", value)
}

func TestExtract_WholeMatchWithoutGroup(t *testing.T) {
	resp := &http.Response{StatusCode: 200, Body: []byte("token=abc")}

	value, ok := Extract(resp, SourceBody, `abc`)
	assert.True(t, ok)
	assert.Equal(t, "abc", value)
}

func TestExtract_NoMatch(t *testing.T) {
	resp := &http.Response{StatusCode: 200, Body: []byte("nothing here")}

	_, ok := Extract(resp, SourceBody, `csrf=(\w+)`)
	assert.False(t, ok)
}

func TestExtract_InvalidExpr(t *testing.T) {
	resp := &http.Response{StatusCode: 200, Body: []byte("text")}

	_, ok := Extract(resp, SourceBody, `([`)
	assert.False(t, ok)
}
