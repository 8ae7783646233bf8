package cmd

import (
	"fmt"
	"os"

	"github.com/smokecheck/smokecheck/packages/core/script"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory>",
	Short: "Validate smoke scripts for syntax errors",
	Long: `Validate smoke scripts for syntax errors without executing them.

Examples:
  smokecheck validate api.smoke
  smokecheck validate ./checks/`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no .smoke files found")
	}

	hasErrors := false
	for _, file := range files {
		if _, err := script.ParseFile(file); err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
		}
	}

	if hasErrors {
		os.Exit(ExitParseError)
	}

	return nil
}
