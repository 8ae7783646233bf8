package session

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/smokecheck/smokecheck/packages/http"
)

// Get issues a GET request and records the response.
func (s *Session) Get(url string) {
	s.execute("GET", url, "")
}

// Options issues an OPTIONS request and records the response.
func (s *Session) Options(url string) {
	s.execute("OPTIONS", url, "")
}

// Post issues a POST request with the contents of formFile as the body.
// Every occurrence of the CSRF placeholder in the file is substituted with
// the current token before sending.
func (s *Session) Post(url, formFile string) {
	body, err := os.ReadFile(formFile)
	if err != nil {
		s.trace("POST", s.ResolveURL(url))
		s.log.Errorw("form file unreadable", "file", formFile, "error", err)
		s.recordNoResponse("POST", url)
		return
	}
	s.execute("POST", url, string(body))
}

// GetOK issues a GET request and immediately asserts a 2xx status.
func (s *Session) GetOK(url string) {
	s.Get(url)
	s.AssertOK()
}

// GetCORS issues a GET request for a cross-origin check. Origin must have
// been configured beforehand; when it is not, a failed check is recorded
// without issuing a request.
func (s *Session) GetCORS(url string) {
	if s.origin == "" {
		s.record(Check{
			Description: fmt.Sprintf("CORS request to %q", url),
			Passed:      false,
			Detail:      "origin not set",
		})
		return
	}
	s.Get(url)
}

// TCPConnect opens a raw TCP connection to host:port and records an OK/FAIL
// check based solely on connection success. No HTTP semantics apply and the
// last response is left untouched.
func (s *Session) TCPConnect(host string, port int) {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	check := Check{Description: fmt.Sprintf("TCP connect to %s", addr)}

	conn, err := net.DialTimeout("tcp", addr, s.timeout)
	if err != nil {
		check.Detail = err.Error()
	} else {
		_ = conn.Close()
		check.Passed = true
	}
	s.record(check)
}

func (s *Session) execute(method, url, body string) {
	effectiveURL := s.ResolveURL(url)
	s.trace(method, effectiveURL)

	if method == "POST" && s.csrfToken != "" {
		body = strings.ReplaceAll(body, Placeholder, s.csrfToken)
	}

	req, err := s.buildRequest(method, effectiveURL, body)
	if err != nil {
		s.log.Errorw("request not sent", "method", method, "url", effectiveURL, "error", err)
		s.finish(method, effectiveURL, http.NoResponse(), 0)
		return
	}

	client := http.NewClient(
		http.WithTimeout(s.timeout),
		http.WithFollowRedirects(s.followRedirects),
		http.WithValidateSSL(s.validateSSL),
		http.WithProxy(s.proxy),
		http.WithNoProxy(s.noProxy),
	)

	if s.debug {
		s.log.Debugw("request", "method", method, "url", effectiveURL,
			"headers", req.Headers, "body", body)
	}

	start := time.Now()
	resp, err := client.Do(req)
	elapsed := time.Since(start)

	// Any failure to obtain an HTTP response is the no-response outcome.
	// It is data for the no-response assertion, not an error.
	if err != nil {
		if s.debug {
			s.log.Debugw("no response", "method", method, "url", effectiveURL, "error", err)
		}
		s.finish(method, effectiveURL, http.NoResponse(), elapsed)
		return
	}

	if s.debug {
		s.log.Debugw("response", "status", resp.Status,
			"headers", resp.HeaderLines, "body", resp.BodyString(),
			"duration_ms", resp.DurationMs())
	}

	s.finish(method, effectiveURL, resp, elapsed)
}

// finish installs the response record, notifies the observer, and runs the
// after-response hook exactly once.
func (s *Session) finish(method, url string, resp *http.Response, elapsed time.Duration) {
	s.last = resp
	if s.observer != nil {
		s.observer(method, url, resp.StatusCode, elapsed)
	}
	if s.hook != nil {
		s.hook(resp)
	}
}

func (s *Session) recordNoResponse(method, url string) {
	s.finish(method, s.ResolveURL(url), http.NoResponse(), 0)
}

func (s *Session) buildRequest(method, url, body string) (*http.Request, error) {
	req := http.NewRequest(method, url)
	req.SetTimeout(s.timeout)

	if s.hostOverride != "" {
		req.Host = s.hostOverride
	}
	if s.origin != "" {
		req.SetHeader("Origin", s.origin)
	}
	for _, h := range s.headers {
		req.SetHeader(h.Key, h.Value)
	}
	if body != "" {
		req.SetBody(body)
		if method == "POST" {
			req.SetHeader("Content-Type", "application/x-www-form-urlencoded")
		}
	}

	if s.creds != nil {
		if !s.creds.HasPassword {
			password, err := s.prompt(s.creds.Username)
			if err != nil {
				return nil, fmt.Errorf("reading password: %w", err)
			}
			s.creds.Password = password
			s.creds.HasPassword = true
		}
		req.BasicAuth = &http.BasicAuthCredentials{
			Username: s.creds.Username,
			Password: s.creds.Password,
		}
	}

	return req, nil
}

// ResolveURL applies the configured prefix to a relative URL.
func (s *Session) ResolveURL(url string) string {
	return http.ResolveURL(s.prefix, url)
}

func (s *Session) trace(method, url string) {
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(s.out, "%s %s %s\n", cyan(">"), method, url)
}
