package runner

import (
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/smokecheck/smokecheck/packages/http"
)

// registerHook appends a shell command to run after every subsequent
// response. The session hook is (re)installed to iterate the current list.
func (r *Runner) registerHook(command string) {
	r.hooks = append(r.hooks, command)
	r.sess.SetHook(func(resp *http.Response) {
		for _, cmd := range r.hooks {
			r.runHook(cmd, resp)
		}
	})
}

// runHook executes one hook command via sh -c with the response exposed
// through SMOKE_CODE, SMOKE_BODY, and SMOKE_HEADERS. Hook failures are
// logged, never fatal: hooks observe the run, they don't gate it.
func (r *Runner) runHook(command string, resp *http.Response) {
	cmdStr := strings.TrimSpace(command)
	if cmdStr == "" {
		return
	}

	cmd := exec.Command("sh", "-c", cmdStr)
	cmd.Dir = r.baseDir
	cmd.Env = append(os.Environ(),
		"SMOKE_CODE="+strconv.Itoa(resp.StatusCode),
		"SMOKE_BODY="+resp.BodyString(),
		"SMOKE_HEADERS="+resp.HeaderText(),
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		r.log.Warnw("hook failed", "command", command, "error", err, "output", string(output))
		return
	}
	if len(output) > 0 {
		r.log.Debugw("hook output", "command", command, "output", string(output))
	}
}
