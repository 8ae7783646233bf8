package session

import (
	"io"
	"os"
	"time"

	"github.com/smokecheck/smokecheck/packages/http"
	"go.uber.org/zap"
)

// Placeholder is the literal token substituted with the current CSRF token
// in POST form bodies.
const Placeholder = "__SMOKE_CSRF_TOKEN__"

// Credentials holds a username and an optional password. When the password
// was not supplied it is prompted for interactively at request time.
type Credentials struct {
	Username    string
	Password    string
	HasPassword bool
}

// Check records one assertion outcome.
type Check struct {
	Description string
	Passed      bool
	Detail      string
}

// Hook is invoked once per request, synchronously, after the last response
// has been recorded and before the request call returns.
type Hook func(resp *http.Response)

// Observer is notified after every executed HTTP request. Used by repeat
// mode to collect latencies.
type Observer func(method, url string, code int, duration time.Duration)

// PasswordPrompt solicits the password for a username.
type PasswordPrompt func(username string) (string, error)

type Session struct {
	prefix          string
	hostOverride    string
	headers         []http.HeaderField
	origin          string
	proxy           string
	noProxy         string
	creds           *Credentials
	csrfToken       string
	followRedirects bool
	debug           bool

	timeout     time.Duration
	validateSSL bool

	last *http.Response
	hook Hook

	checks    []Check
	okCount   int
	failCount int

	out      io.Writer
	log      *zap.SugaredLogger
	observer Observer
	prompt   PasswordPrompt
}

type Option func(*Session)

func New(opts ...Option) *Session {
	s := &Session{
		followRedirects: true,
		timeout:         http.DefaultTimeout,
		validateSSL:     true,
		last:            http.NoResponse(),
		out:             os.Stdout,
		log:             zap.NewNop().Sugar(),
		prompt:          terminalPrompt,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithWriter directs assertion and trace lines to w instead of stdout.
func WithWriter(w io.Writer) Option {
	return func(s *Session) {
		s.out = w
	}
}

// WithLogger sets the logger used for debug-mode request/response dumps.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Session) {
		s.log = log
	}
}

func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithValidateSSL enables or disables TLS certificate validation.
func WithValidateSSL(validate bool) Option {
	return func(s *Session) {
		s.validateSSL = validate
	}
}

// WithObserver registers a per-request latency observer.
func WithObserver(fn Observer) Option {
	return func(s *Session) {
		s.observer = fn
	}
}

// WithPasswordPrompt overrides the interactive password prompt.
func WithPasswordPrompt(fn PasswordPrompt) Option {
	return func(s *Session) {
		s.prompt = fn
	}
}

// Configuration setters. Values are accepted as-is; there are no error
// conditions.

func (s *Session) SetPrefix(prefix string) {
	s.prefix = prefix
}

func (s *Session) ClearPrefix() {
	s.prefix = ""
}

func (s *Session) SetHost(host string) {
	s.hostOverride = host
}

func (s *Session) ClearHost() {
	s.hostOverride = ""
}

// SetHeader adds or replaces a named header. Replacement keeps the original
// insertion position.
func (s *Session) SetHeader(key, value string) {
	for i, h := range s.headers {
		if h.Key == key {
			s.headers[i].Value = value
			return
		}
	}
	s.headers = append(s.headers, http.HeaderField{Key: key, Value: value})
}

func (s *Session) UnsetHeader(key string) {
	for i, h := range s.headers {
		if h.Key == key {
			s.headers = append(s.headers[:i], s.headers[i+1:]...)
			return
		}
	}
}

func (s *Session) SetOrigin(origin string) {
	s.origin = origin
}

func (s *Session) ClearOrigin() {
	s.origin = ""
}

func (s *Session) SetProxy(proxy, noProxy string) {
	s.proxy = proxy
	s.noProxy = noProxy
}

func (s *Session) ClearProxy() {
	s.proxy = ""
	s.noProxy = ""
}

// SetCredentials installs Basic-auth credentials. With hasPassword false the
// password is solicited interactively before the first authenticated
// request and cached for the rest of the run.
func (s *Session) SetCredentials(username, password string, hasPassword bool) {
	s.creds = &Credentials{
		Username:    username,
		Password:    password,
		HasPassword: hasPassword,
	}
}

func (s *Session) ClearCredentials() {
	s.creds = nil
}

func (s *Session) SetCSRFToken(token string) {
	s.csrfToken = token
}

func (s *Session) ClearCSRFToken() {
	s.csrfToken = ""
}

func (s *Session) CSRFToken() string {
	return s.csrfToken
}

func (s *Session) SetFollowRedirects(follow bool) {
	s.followRedirects = follow
}

func (s *Session) SetDebug(debug bool) {
	s.debug = debug
}

// SetHook installs the after-response callback. A nil hook clears it.
func (s *Session) SetHook(hook Hook) {
	s.hook = hook
}

// LastResponse returns the record of the most recently executed request.
// Before any request it is the no-response record.
func (s *Session) LastResponse() *http.Response {
	return s.last
}

// Checks returns every assertion recorded so far, in order.
func (s *Session) Checks() []Check {
	return s.checks
}

// RecordCheck records an externally evaluated check in the tally, printing
// its line like any assertion.
func (s *Session) RecordCheck(description string, passed bool, detail string) {
	s.record(Check{Description: description, Passed: passed, Detail: detail})
}

func (s *Session) OKCount() int {
	return s.okCount
}

func (s *Session) FailCount() int {
	return s.failCount
}
