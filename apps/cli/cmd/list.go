package cmd

import (
	"fmt"
	"strings"

	"github.com/smokecheck/smokecheck/packages/core/script"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <file|directory>",
	Short: "List requests and checks in smoke scripts",
	Long: `List the requests and checks defined in .smoke files.

Examples:
  smokecheck list api.smoke
  smokecheck list ./checks/`,
	Args: cobra.MinimumNArgs(1),
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no .smoke files found")
	}

	for _, file := range files {
		parsed, err := script.ParseFile(file)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error parsing %s: %v\n", file, err)
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%s:\n", file)
		for _, c := range parsed.Commands {
			switch c.Op {
			case script.OpGet, script.OpGetOK, script.OpGetCORS,
				script.OpPost, script.OpOptions, script.OpTCPConnect,
				script.OpWaitFor:
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s %s\n", c.Op, strings.Join(c.Args, " "))
			case script.OpAssert:
				fmt.Fprintf(cmd.OutOrStdout(), "    assert %s\n", strings.Join(c.Args, " "))
			}
		}
	}

	return nil
}
