// Package runner interprets parsed smokecheck scripts against a session.
//
// Commands execute strictly in order, one at a time. A failed check never
// stops the run; the report command (implied at end of script) closes the
// run and yields the exit code.
package runner
