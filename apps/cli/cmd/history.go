package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/smokecheck/smokecheck/packages/core/config"
	"github.com/smokecheck/smokecheck/packages/history"
	"github.com/spf13/cobra"
)

var (
	historyFileFlag   string
	historyScriptFlag string
	historyLimitFlag  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past run results",
	Long: `Show results of past runs recorded with --history.

Examples:
  smokecheck history --file runs.db
  smokecheck history --file runs.db --script api.smoke --limit 50`,
	RunE: historyCommand,
}

func init() {
	historyCmd.Flags().StringVar(&historyFileFlag, "file", getEnvString("SMOKECHECK_HISTORY", ""), "SQLite history file (env: SMOKECHECK_HISTORY)")
	historyCmd.Flags().StringVar(&historyScriptFlag, "script", "", "Only show runs of this script")
	historyCmd.Flags().IntVar(&historyLimitFlag, "limit", 20, "Maximum number of runs to show")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	path := historyFileFlag
	if path == "" {
		fileConfig, err := config.LoadConfig("")
		if err == nil {
			path = fileConfig.HistoryFile
		}
	}
	if path == "" {
		return fmt.Errorf("no history file given (use --file or set historyFile in config)")
	}

	store, err := history.Open(path)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStderr(), "config error: %v\n", err)
		os.Exit(ExitConfigError)
	}
	defer store.Close()

	runs, err := store.List(historyScriptFlag, historyLimitFlag)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	for _, r := range runs {
		status := "OK"
		if !r.Passed {
			status = "FAILED"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-6s  %s  %d ok, %d failed  (%s)\n",
			r.StartedAt.Format("2006-01-02 15:04:05"),
			status,
			r.Script,
			r.OK,
			r.Failed,
			r.Duration.Round(time.Millisecond),
		)
	}

	return nil
}
