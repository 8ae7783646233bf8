package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/smokecheck/smokecheck/packages/core/runner"
)

// JUnit XML structures

// JUnitTestSuite is the root element; one suite per script run.
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Time      float64         `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr,omitempty"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase is a single check
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
}

// JUnitFailure carries the failure detail
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
}

// JUnitFormatter renders a run result as JUnit XML
type JUnitFormatter struct{}

func (f *JUnitFormatter) Format(w io.Writer, result *runner.RunResult) error {
	suite := JUnitTestSuite{
		Name:      result.Script,
		Tests:     result.Passed + result.Failed,
		Failures:  result.Failed,
		Time:      result.Duration.Seconds(),
		Timestamp: time.Now().Format(time.RFC3339),
		TestCases: make([]JUnitTestCase, 0, len(result.Checks)),
	}

	for _, c := range result.Checks {
		tc := JUnitTestCase{
			Name:      c.Description,
			ClassName: result.Script,
		}
		if !c.Passed {
			tc.Failure = &JUnitFailure{
				Message: c.Detail,
				Type:    "CheckFailure",
			}
		}
		suite.TestCases = append(suite.TestCases, tc)
	}

	fmt.Fprintf(w, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	return encoder.Encode(suite)
}
