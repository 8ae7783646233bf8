package script

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FullScript(t *testing.T) {
	content := `# smoke test for the api
prefix https://api.example.org
header X-Api-Key: secret
origin https://app.example.org

get /health
assert code 200
assert body "status.*ok"
post /login login.form
assert ok
csrf-from body csrf=([a-z0-9]+)
tcp-connect db.example.org 5432
report
`
	s, err := Parse(strings.NewReader(content), "test.smoke")
	require.NoError(t, err)
	require.Len(t, s.Commands, 11)

	assert.Equal(t, OpPrefix, s.Commands[0].Op)
	assert.Equal(t, []string{"https://api.example.org"}, s.Commands[0].Args)
	assert.Equal(t, 2, s.Commands[0].Line)

	assert.Equal(t, OpHeader, s.Commands[1].Op)
	assert.Equal(t, []string{"X-Api-Key:", "secret"}, s.Commands[1].Args)

	assert.Equal(t, OpAssert, s.Commands[5].Op)
	assert.Equal(t, []string{"code", "200"}, s.Commands[5].Args)

	assert.Equal(t, OpPost, s.Commands[7].Op)
	assert.Equal(t, OpReport, s.Commands[10].Op)
}

func TestParse_QuotedArgs(t *testing.T) {
	s, err := Parse(strings.NewReader(`assert body "search results"`), "x.smoke")
	require.NoError(t, err)
	require.Len(t, s.Commands, 1)
	assert.Equal(t, []string{"body", "search results"}, s.Commands[0].Args)
}

func TestParse_EscapedQuotesInPattern(t *testing.T) {
	s, err := Parse(strings.NewReader(`assert body "\"status\":\\s*\"ok\""`), "x.smoke")
	require.NoError(t, err)
	require.Len(t, s.Commands, 1)
	assert.Equal(t, []string{"body", `"status":\s*"ok"`}, s.Commands[0].Args)
}

func TestParse_BackslashKeptLiterally(t *testing.T) {
	// A lone backslash inside quotes is not an escape; regex classes
	// survive without doubling.
	s, err := Parse(strings.NewReader(`assert body "items\s+found"`), "x.smoke")
	require.NoError(t, err)
	assert.Equal(t, []string{"body", `items\s+found`}, s.Commands[0].Args)
}

func TestParse_UnknownCommand(t *testing.T) {
	_, err := Parse(strings.NewReader("teleport /somewhere"), "x.smoke")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x.smoke:1")
	assert.Contains(t, err.Error(), "unknown command")
}

func TestParse_UnknownAssertion(t *testing.T) {
	_, err := Parse(strings.NewReader("assert vibes good"), "x.smoke")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown assertion")
}

func TestParse_ArityErrors(t *testing.T) {
	cases := []string{
		"prefix",
		"post /login",
		"assert code",
		"assert code abc",
		"tcp-connect host notaport",
		"csrf-from cookie x=(.*)",
		"follow-redirects maybe",
		"header NoColonHere",
	}
	for _, c := range cases {
		_, err := Parse(strings.NewReader(c), "x.smoke")
		assert.Error(t, err, "input: %s", c)
	}
}

func TestParse_UnterminatedQuote(t *testing.T) {
	_, err := Parse(strings.NewReader(`assert body "oops`), "x.smoke")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated quote")
}

func TestParse_CommentsAndBlanksSkipped(t *testing.T) {
	content := "\n# comment only\n\nreport\n"
	s, err := Parse(strings.NewReader(content), "x.smoke")
	require.NoError(t, err)
	require.Len(t, s.Commands, 1)
	assert.Equal(t, 4, s.Commands[0].Line)
}
