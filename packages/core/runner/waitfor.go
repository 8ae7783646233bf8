package runner

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// waitFor polls a URL until it returns the expected status code or the
// timeout elapses, then records the outcome as a check. It gates readiness,
// so unlike assertions it runs before the requests it protects.
func (r *Runner) waitFor(args []string) error {
	url := r.sess.ResolveURL(args[0])
	expectedStatus, _ := strconv.Atoi(args[1])

	timeout := DefaultWaitForTimeout
	if len(args) > 2 {
		d, err := time.ParseDuration(args[2])
		if err != nil {
			return fmt.Errorf("wait-for: %v", err)
		}
		timeout = d
	}

	description := fmt.Sprintf("wait for %s to return %d", url, expectedStatus)

	client := resty.New().SetTimeout(5 * time.Second)
	deadline := time.Now().Add(timeout)

	var lastStatus int
	var lastErr error
	for time.Now().Before(deadline) {
		resp, err := client.R().Get(url)
		if err != nil {
			lastErr = err
			time.Sleep(DefaultWaitForInterval)
			continue
		}
		lastStatus = resp.StatusCode()
		if lastStatus == expectedStatus {
			r.sess.RecordCheck(description, true, "")
			return nil
		}
		time.Sleep(DefaultWaitForInterval)
	}

	detail := fmt.Sprintf("not ready after %v", timeout)
	if lastErr != nil {
		detail = fmt.Sprintf("%s: %v", detail, lastErr)
	} else if lastStatus != 0 {
		detail = fmt.Sprintf("%s: last status %d", detail, lastStatus)
	}
	r.sess.RecordCheck(description, false, detail)
	return nil
}
