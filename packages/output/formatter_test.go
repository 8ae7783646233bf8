package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/smokecheck/smokecheck/packages/core/runner"
	"github.com/smokecheck/smokecheck/packages/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *runner.RunResult {
	return &runner.RunResult{
		Script: "api.smoke",
		Checks: []session.Check{
			{Description: "status is 200", Passed: true},
			{Description: `body matches "welcome"`, Passed: false, Detail: "pattern not found in body"},
		},
		Passed:   1,
		Failed:   1,
		Duration: 1500 * time.Millisecond,
		ExitCode: 1,
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "tap", "junit"} {
		f, err := New(format)
		require.NoError(t, err)
		assert.NotNil(t, f)
	}

	_, err := New("html")
	assert.Error(t, err)
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONFormatter{}
	require.NoError(t, f.Format(&buf, sampleResult()))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 2, out.Summary.Total)
	assert.Equal(t, 1, out.Summary.Passed)
	assert.Equal(t, 1, out.Summary.Failed)
	assert.False(t, out.Summary.OK)
	assert.Equal(t, "api.smoke", out.Script)
	require.Len(t, out.Checks, 2)
	assert.Equal(t, "pattern not found in body", out.Checks[1].Detail)
}

func TestTAPFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &TAPFormatter{}
	require.NoError(t, f.Format(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "TAP version 13")
	assert.Contains(t, out, "1..2")
	assert.Contains(t, out, "ok 1 - status is 200")
	assert.Contains(t, out, `not ok 2 - body matches "welcome"`)
	assert.Contains(t, out, "message: pattern not found in body")
}

func TestJUnitFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &JUnitFormatter{}
	require.NoError(t, f.Format(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, `tests="2"`)
	assert.Contains(t, out, `failures="1"`)
	assert.Contains(t, out, `name="status is 200"`)
	assert.Contains(t, out, `message="pattern not found in body"`)
}
