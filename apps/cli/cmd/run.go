package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/smokecheck/smokecheck/packages/bench"
	"github.com/smokecheck/smokecheck/packages/core/config"
	"github.com/smokecheck/smokecheck/packages/core/env"
	"github.com/smokecheck/smokecheck/packages/core/logging"
	"github.com/smokecheck/smokecheck/packages/core/runner"
	"github.com/smokecheck/smokecheck/packages/history"
	"github.com/smokecheck/smokecheck/packages/http"
	"github.com/smokecheck/smokecheck/packages/output"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file|directory>",
	Short: "Run smoke scripts",
	Long: `Run smoke scripts from .smoke files against a live deployment.

Examples:
  smokecheck run api.smoke
  smokecheck run api.smoke --env staging
  smokecheck run ./checks/ --output tap
  smokecheck run api.smoke --watch
  smokecheck run api.smoke --repeat 100 --rate 10`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCommand,
}

// WatchDebounceDelay is the debounce delay for file watch events
const WatchDebounceDelay = 300 * time.Millisecond

var (
	envFlag        string
	envFileFlag    string
	configFlag     string
	outputFlag     string
	outputFileFlag string
	noColorFlag    bool
	timeoutFlag    string
	proxyFlag      string
	noProxyFlag    string
	insecureFlag   bool
	watchFlag      bool
	debugFlag      bool
	historyFlag    string

	// Repeat mode flags
	repeatFlag int
	rateFlag   float64
)

func init() {
	runCmd.Flags().StringVarP(&envFlag, "env", "e", getEnvString("SMOKECHECK_ENV", ""), "Environment from smoke.yaml to use (env: SMOKECHECK_ENV)")
	runCmd.Flags().StringVar(&envFileFlag, "env-file", getEnvString("SMOKECHECK_ENV_FILE", ""), "Path to .env file loaded before running (env: SMOKECHECK_ENV_FILE)")
	runCmd.Flags().StringVar(&configFlag, "config", getEnvString("SMOKECHECK_CONFIG", ""), "Path to config file (env: SMOKECHECK_CONFIG)")

	runCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("SMOKECHECK_OUTPUT", ""), "Output format: console, json, tap, junit (env: SMOKECHECK_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("SMOKECHECK_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: SMOKECHECK_OUTPUT_FILE)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("SMOKECHECK_NO_COLOR", false), "Disable colored output (env: SMOKECHECK_NO_COLOR)")
	runCmd.Flags().BoolVarP(&debugFlag, "debug", "v", getEnvBool("SMOKECHECK_DEBUG", false), "Dump requests and responses to stderr (env: SMOKECHECK_DEBUG)")

	runCmd.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("SMOKECHECK_TIMEOUT", ""), "Request timeout (e.g., 30s, 1m) (env: SMOKECHECK_TIMEOUT)")
	runCmd.Flags().StringVar(&proxyFlag, "proxy", getEnvString("SMOKECHECK_PROXY", ""), "Proxy URL for HTTP requests (env: SMOKECHECK_PROXY)")
	runCmd.Flags().StringVar(&noProxyFlag, "no-proxy", getEnvString("SMOKECHECK_NO_PROXY", ""), "Comma-separated hosts excluded from the proxy (env: SMOKECHECK_NO_PROXY)")
	runCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", getEnvBool("SMOKECHECK_INSECURE", false), "Disable SSL certificate validation (env: SMOKECHECK_INSECURE)")

	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch scripts for changes and re-run")
	runCmd.Flags().StringVar(&historyFlag, "history", getEnvString("SMOKECHECK_HISTORY", ""), "SQLite file for recording run history (env: SMOKECHECK_HISTORY)")

	runCmd.Flags().IntVar(&repeatFlag, "repeat", getEnvInt("SMOKECHECK_REPEAT", 1), "Run each script N times and report latency percentiles (env: SMOKECHECK_REPEAT)")
	runCmd.Flags().Float64VarP(&rateFlag, "rate", "r", 0, "Target runs per second in repeat mode (0 = unlimited)")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func runCommand(cmd *cobra.Command, args []string) error {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStderr(), "config error: %v\n", err)
		os.Exit(ExitConfigError)
	}

	if noColorFlag || fileConfig.GetNoColor() {
		color.NoColor = true
	}

	if err := env.LoadDotenv(envFileFlag); err != nil {
		fmt.Fprintf(cmd.OutOrStderr(), "config error: %v\n", err)
		os.Exit(ExitConfigError)
	}

	environment := envFlag
	if environment == "" {
		environment = fileConfig.DefaultEnvironment
	}

	timeout := time.Duration(fileConfig.Timeout) * time.Millisecond
	if timeoutFlag != "" {
		timeout, err = time.ParseDuration(timeoutFlag)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "invalid timeout value %q: %v (use format like 30s, 1m, 500ms)\n", timeoutFlag, err)
			os.Exit(ExitUsageError)
		}
	}

	proxy := fileConfig.Proxy
	if proxyFlag != "" {
		proxy = proxyFlag
	}
	noProxy := fileConfig.NoProxy
	if noProxyFlag != "" {
		noProxy = noProxyFlag
	}

	debug := debugFlag || fileConfig.GetDebug()
	log := logging.New(debug)
	defer func() { _ = log.Sync() }()

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .smoke files found")
	}

	// Output destination
	var outWriter io.Writer = cmd.OutOrStdout()
	if outputFileFlag != "" {
		f, err := os.Create(outputFileFlag)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer f.Close()
		outWriter = f
	}

	// Machine formats silence the live console lines; only the formatted
	// report is written.
	format := strings.ToLower(outputFlag)
	if format == "" {
		format = strings.ToLower(fileConfig.Output)
	}
	var formatter output.Formatter
	var sessionWriter io.Writer = outWriter
	if format != "" && format != "console" {
		formatter, err = output.New(format)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "%v\n", err)
			os.Exit(ExitUsageError)
		}
		sessionWriter = io.Discard
	}

	var store *history.Store
	historyPath := historyFlag
	if historyPath == "" {
		historyPath = fileConfig.HistoryFile
	}
	if historyPath != "" {
		store, err = history.Open(historyPath)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "config error: %v\n", err)
			os.Exit(ExitConfigError)
		}
		defer store.Close()
	}

	followRedirects := fileConfig.GetFollowRedirects()
	cfg := &runner.Config{
		Environment:     environment,
		Timeout:         timeout,
		Proxy:           proxy,
		NoProxy:         noProxy,
		Insecure:        insecureFlag || !fileConfig.GetValidateSSL(),
		Debug:           debug,
		FollowRedirects: &followRedirects,
		Headers:         fileConfig.Headers,
	}

	if repeatFlag > 1 {
		return runRepeat(cmd, files, cfg, outWriter)
	}

	// runAll executes every script once. Each script gets a fresh session so
	// state set by one file never leaks into the next.
	runAll := func(sessWriter io.Writer) (failed int, runErr error) {
		for _, file := range files {
			r := runner.New(cfg, runner.WithWriter(sessWriter), runner.WithLogger(log))

			startedAt := time.Now()
			result, err := r.RunFile(file)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStderr(), "%v\n", err)
				if runErr == nil {
					runErr = err
				}
				continue
			}

			failed += result.Failed
			if formatter != nil {
				if err := formatter.Format(outWriter, result); err != nil {
					return failed, fmt.Errorf("writing output: %w", err)
				}
			}
			if store != nil {
				rec := history.Run{
					Script:    file,
					StartedAt: startedAt,
					Duration:  result.Duration,
					OK:        result.Passed,
					Failed:    result.Failed,
					Passed:    result.Failed == 0,
				}
				if err := store.Record(rec); err != nil {
					log.Warnw("failed to record run history", "error", err)
				}
			}
		}
		return failed, runErr
	}

	totalFailed, runErr := runAll(sessionWriter)

	if !watchFlag {
		code := ExitSuccess
		switch {
		case runErr != nil:
			code = ExitParseError
		case totalFailed > 0:
			code = ExitCheckFailure
		}
		if code != ExitSuccess {
			os.Exit(code)
		}
		return nil
	}

	return watchAndRerun(cmd, args, files, func() {
		_, _ = runAll(sessionWriter)
	})
}

// runRepeat executes the scripts repeatedly, collecting per-request latency
// percentiles across runs.
func runRepeat(cmd *cobra.Command, files []string, cfg *runner.Config, outWriter io.Writer) error {
	collector := bench.NewCollector()
	pacer := bench.NewPacer(rateFlag)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	observe := func(method, url string, code int, duration time.Duration) {
		collector.Observe(duration, code != http.StatusNoResponse)
	}

	anyFailed := false
	quiet := logging.Nop()
	collector.Start()

	for i := 0; i < repeatFlag; i++ {
		if err := pacer.Wait(ctx); err != nil {
			break
		}
		for _, file := range files {
			r := runner.New(cfg,
				runner.WithWriter(io.Discard),
				runner.WithLogger(quiet),
				runner.WithObserver(observe),
			)

			result, err := r.RunFile(file)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStderr(), "%v\n", err)
				os.Exit(ExitParseError)
			}
			if result.Failed > 0 {
				anyFailed = true
			}
		}
	}

	collector.Stop()
	collector.Summary().Print(outWriter)

	if anyFailed {
		os.Exit(ExitCheckFailure)
	}
	return nil
}

// watchAndRerun blocks watching the script files, re-running on changes.
func watchAndRerun(cmd *cobra.Command, args, files []string, rerun func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watchedDirs := make(map[string]bool)
	for _, file := range files {
		dir := filepath.Dir(file)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				fmt.Fprintf(cmd.OutOrStderr(), "failed to watch %s: %v\n", dir, err)
			}
			watchedDirs[dir] = true
		}
	}

	// Also watch the original args if they're directories
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			_ = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() && !watchedDirs[path] {
					_ = watcher.Add(path)
					watchedDirs[path] = true
				}
				return nil
			})
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// React to writes on script and environment files only
			if event.Has(fsnotify.Write) && (isSmokeFile(event.Name) || filepath.Base(event.Name) == env.EnvironmentsFilename) {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				name := event.Name
				debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "\n\nFile changed: %s\nRe-running...\n\n", name)
					rerun()
					fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")
				})
			}

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.OutOrStderr(), "watcher error: %v\n", werr)
		}
	}
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && isSmokeFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else {
			if isSmokeFile(arg) {
				files = append(files, arg)
			}
		}
	}

	return files, nil
}

func isSmokeFile(path string) bool {
	return filepath.Ext(path) == ".smoke"
}
