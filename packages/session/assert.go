package session

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/smokecheck/smokecheck/packages/assertions"
)

// Assertion methods evaluate one check against the last response, print a
// "[ OK ]"/"[FAIL]" line, and update the tally. A failing check never halts
// the run: a smoke run reports every failure in one pass.

func (s *Session) AssertBodyContains(pattern string) bool {
	result := assertions.BodyContains(s.last, pattern)
	return s.evaluate(fmt.Sprintf("body matches %q", pattern), result)
}

func (s *Session) AssertHeaderContains(pattern string) bool {
	result := assertions.HeaderContains(s.last, pattern)
	return s.evaluate(fmt.Sprintf("headers match %q", pattern), result)
}

func (s *Session) AssertCode(code int) bool {
	result := assertions.CodeEquals(s.last, code)
	return s.evaluate(fmt.Sprintf("status is %d", code), result)
}

func (s *Session) AssertOK() bool {
	result := assertions.CodeOK(s.last)
	return s.evaluate("status is 2xx", result)
}

func (s *Session) AssertNoResponse() bool {
	result := assertions.NoResponse(s.last)
	return s.evaluate("no response", result)
}

func (s *Session) AssertJSONPath(path, expected string) bool {
	result := assertions.JSONPath(s.last, path, expected)
	return s.evaluate(fmt.Sprintf("json %s == %q", path, expected), result)
}

func (s *Session) AssertSchema(schemaPath, baseDir string) bool {
	result := assertions.Schema(s.last, schemaPath, baseDir)
	return s.evaluate(fmt.Sprintf("body matches schema %s", schemaPath), result)
}

func (s *Session) evaluate(description string, result assertions.Result) bool {
	s.record(Check{
		Description: description,
		Passed:      result.Passed,
		Detail:      result.Detail,
	})
	return result.Passed
}

// record appends a check to the log, bumps the tally, and prints its line.
func (s *Session) record(check Check) {
	s.checks = append(s.checks, check)
	if check.Passed {
		s.okCount++
	} else {
		s.failCount++
	}
	s.printCheck(check)
}

func (s *Session) printCheck(check Check) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	if check.Passed {
		fmt.Fprintf(s.out, "%s %s\n", green("[ OK ]"), check.Description)
		return
	}
	if check.Detail != "" {
		fmt.Fprintf(s.out, "%s %s (%s)\n", red("[FAIL]"), check.Description, check.Detail)
		return
	}
	fmt.Fprintf(s.out, "%s %s\n", red("[FAIL]"), check.Description)
}
