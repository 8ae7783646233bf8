package runner

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/smokecheck/smokecheck/packages/capture"
	"github.com/smokecheck/smokecheck/packages/core/env"
	"github.com/smokecheck/smokecheck/packages/core/script"
	"github.com/smokecheck/smokecheck/packages/session"
	"go.uber.org/zap"
)

const (
	// DefaultWaitForTimeout bounds wait-for polling when no timeout is given
	DefaultWaitForTimeout = 30 * time.Second
	// DefaultWaitForInterval is the delay between wait-for polls
	DefaultWaitForInterval = 500 * time.Millisecond
)

type Config struct {
	Environment     string
	Timeout         time.Duration
	Proxy           string
	NoProxy         string
	Insecure        bool
	Debug           bool
	FollowRedirects *bool // nil means the session default (follow)
	Headers         map[string]string
}

type Runner struct {
	sess     *session.Session
	resolver *env.Resolver
	cfg      *Config
	log      *zap.SugaredLogger
	out      io.Writer
	observer session.Observer
	hooks    []string
	baseDir  string
}

type Option func(*Runner)

// WithWriter directs session output (trace, check, and summary lines) to w.
func WithWriter(w io.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// WithObserver forwards per-request latencies, used by repeat mode.
func WithObserver(fn session.Observer) Option {
	return func(r *Runner) {
		r.observer = fn
	}
}

func New(cfg *Config, opts ...Option) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}

	r := &Runner{
		resolver: env.NewResolver(),
		cfg:      cfg,
		log:      zap.NewNop().Sugar(),
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}

	sessOpts := []session.Option{
		session.WithWriter(r.out),
		session.WithLogger(r.log),
	}
	if cfg.Timeout > 0 {
		sessOpts = append(sessOpts, session.WithTimeout(cfg.Timeout))
	}
	if cfg.Insecure {
		sessOpts = append(sessOpts, session.WithValidateSSL(false))
	}
	if r.observer != nil {
		sessOpts = append(sessOpts, session.WithObserver(r.observer))
	}
	r.sess = session.New(sessOpts...)

	if cfg.Proxy != "" {
		r.sess.SetProxy(cfg.Proxy, cfg.NoProxy)
	}
	if cfg.FollowRedirects != nil {
		r.sess.SetFollowRedirects(*cfg.FollowRedirects)
	}
	if cfg.Debug {
		r.sess.SetDebug(true)
	}
	for k, v := range cfg.Headers {
		r.sess.SetHeader(k, v)
	}

	r.resolver.SetWarnFunc(func(format string, args ...any) {
		r.log.Warnf(format, args...)
	})

	return r
}

// RunResult summarizes one script run for the output formatters.
type RunResult struct {
	Script   string
	Checks   []session.Check
	Passed   int
	Failed   int
	Duration time.Duration
	ExitCode int
}

// RunFile parses and runs a script file.
func (r *Runner) RunFile(path string) (*RunResult, error) {
	parsed, err := script.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}

	environment, err := env.LoadEnvironment(filepath.Dir(path), r.cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	r.resolver.SetVariables(environment.Variables)

	return r.Run(parsed)
}

// Run executes a parsed script and returns the run summary. Script errors
// (bad arguments surviving parse, unreadable files) abort the run; failed
// checks do not.
func (r *Runner) Run(s *script.Script) (*RunResult, error) {
	start := time.Now()
	r.baseDir = filepath.Dir(s.Path)

	result := &RunResult{Script: s.Path}
	reported := false

	for _, cmd := range s.Commands {
		if cmd.Op == script.OpReport {
			result.ExitCode = r.sess.Report()
			reported = true
			break
		}
		if err := r.execute(cmd); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", s.Path, cmd.Line, err)
		}
	}

	if !reported {
		result.ExitCode = r.sess.Report()
	}

	result.Checks = r.sess.Checks()
	result.Passed = r.sess.OKCount()
	result.Failed = r.sess.FailCount()
	result.Duration = time.Since(start)
	return result, nil
}

func (r *Runner) execute(cmd script.Command) error {
	args := r.resolver.ResolveAll(cmd.Args)

	switch cmd.Op {
	case script.OpPrefix:
		r.sess.SetPrefix(args[0])
	case script.OpHost:
		r.sess.SetHost(args[0])
	case script.OpHeader:
		key, value, _ := strings.Cut(strings.Join(args, " "), ":")
		r.sess.SetHeader(strings.TrimSpace(key), strings.TrimSpace(value))
	case script.OpOrigin:
		r.sess.SetOrigin(args[0])
	case script.OpProxy:
		noProxy := ""
		if len(args) > 1 {
			noProxy = args[1]
		}
		r.sess.SetProxy(args[0], noProxy)
	case script.OpCredentials:
		if len(args) > 1 {
			r.sess.SetCredentials(args[0], args[1], true)
		} else {
			r.sess.SetCredentials(args[0], "", false)
		}
	case script.OpCSRFToken:
		r.sess.SetCSRFToken(args[0])
	case script.OpFollowRedirects:
		r.sess.SetFollowRedirects(strings.EqualFold(args[0], "on"))
	case script.OpDebug:
		r.sess.SetDebug(strings.EqualFold(args[0], "on"))
	case script.OpUnset:
		r.unset(args)
	case script.OpVar:
		r.resolver.SetVariable(args[0], args[1])

	case script.OpGet:
		r.sess.Get(args[0])
	case script.OpGetOK:
		r.sess.GetOK(args[0])
	case script.OpGetCORS:
		r.sess.GetCORS(args[0])
	case script.OpOptions:
		r.sess.Options(args[0])
	case script.OpPost:
		r.sess.Post(args[0], r.resolvePath(args[1]))
	case script.OpTCPConnect:
		port, _ := strconv.Atoi(args[1])
		r.sess.TCPConnect(args[0], port)
	case script.OpWaitFor:
		return r.waitFor(args)

	case script.OpAssert:
		r.assert(args)
	case script.OpCSRFFrom:
		r.csrfFrom(args)
	case script.OpHook:
		r.registerHook(strings.Join(args, " "))
	case script.OpSleep:
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return fmt.Errorf("sleep: %v", err)
		}
		time.Sleep(d)

	default:
		return fmt.Errorf("unknown command %q", cmd.Op)
	}
	return nil
}

func (r *Runner) assert(args []string) {
	switch strings.ToLower(args[0]) {
	case script.AssertCode:
		code, _ := strconv.Atoi(args[1])
		r.sess.AssertCode(code)
	case script.AssertOK:
		r.sess.AssertOK()
	case script.AssertNoResponse:
		r.sess.AssertNoResponse()
	case script.AssertBody:
		r.sess.AssertBodyContains(args[1])
	case script.AssertHeader:
		r.sess.AssertHeaderContains(args[1])
	case script.AssertJSON:
		r.sess.AssertJSONPath(args[1], args[2])
	case script.AssertSchema:
		r.sess.AssertSchema(args[1], r.baseDir)
	}
}

func (r *Runner) csrfFrom(args []string) {
	source := capture.Source(strings.ToLower(args[0]))
	value, ok := capture.Extract(r.sess.LastResponse(), source, args[1])
	if !ok {
		r.log.Warnw("csrf-from matched nothing", "source", args[0], "pattern", args[1])
		return
	}
	r.sess.SetCSRFToken(value)
}

func (r *Runner) unset(args []string) {
	switch strings.ToLower(args[0]) {
	case "prefix":
		r.sess.ClearPrefix()
	case "host":
		r.sess.ClearHost()
	case "origin":
		r.sess.ClearOrigin()
	case "proxy":
		r.sess.ClearProxy()
	case "csrf-token":
		r.sess.ClearCSRFToken()
	case "credentials":
		r.sess.ClearCredentials()
	case "header":
		if len(args) > 1 {
			r.sess.UnsetHeader(args[1])
		}
	}
}

func (r *Runner) resolvePath(path string) string {
	if filepath.IsAbs(path) || r.baseDir == "" {
		return path
	}
	return filepath.Join(r.baseDir, path)
}
