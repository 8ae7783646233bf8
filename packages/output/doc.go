// Package output serializes run results for machines.
//
// Human-readable console lines ("> GET ...", "[ OK ]", "[FAIL]", summary)
// are printed live by the session as the run progresses; the formatters
// here render the accumulated result as JSON, TAP, or JUnit XML for CI
// consumers.
package output
