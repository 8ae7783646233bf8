package session

import (
	"fmt"

	"github.com/fatih/color"
)

// Exit codes returned by Report.
const (
	ExitAllPassed = 0
	ExitFailed    = 1
)

// Report prints the final summary line and returns the process exit code:
// 0 when every check passed (a run with zero checks vacuously passes),
// 1 otherwise. It is the terminal operation of a session.
func (s *Session) Report() int {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	red := color.New(color.FgRed, color.Bold).SprintFunc()

	total := s.okCount + s.failCount
	if s.failCount == 0 {
		fmt.Fprintf(s.out, "%s\n", green(fmt.Sprintf("OK (%d/%d)", s.okCount, total)))
		return ExitAllPassed
	}
	fmt.Fprintf(s.out, "%s\n", red(fmt.Sprintf("FAILED (%d failed of %d)", s.failCount, total)))
	return ExitFailed
}
