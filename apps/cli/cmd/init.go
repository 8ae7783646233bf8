package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/smokecheck/smokecheck/packages/core/config"
	"github.com/smokecheck/smokecheck/packages/core/env"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new smokecheck project",
	Long: `Initialize a new smokecheck project in the current directory.

This creates:
  - .smokecheck.json - Configuration file with defaults
  - smoke.yaml       - Environments file with named variable sets
  - example.smoke    - Example smoke script

Examples:
  smokecheck init
  smokecheck init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, config.ConfigFilenames[0])
	envsFile := filepath.Join(cwd, env.EnvironmentsFilename)
	exampleFile := filepath.Join(cwd, "example.smoke")

	if !forceInit {
		for _, f := range []string{configFile, envsFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return fmt.Errorf("file already exists: %s (use --force to overwrite)", f)
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.DefaultEnvironment = "dev"
	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	envsContent := map[string]any{
		"environments": map[string]map[string]string{
			"dev": {
				"baseUrl": "http://localhost:3000",
			},
			"staging": {
				"baseUrl": "https://staging.api.example.com",
			},
			"prod": {
				"baseUrl": "https://api.example.com",
			},
		},
	}

	envsYAML, _ := yaml.Marshal(envsContent)
	if err := os.WriteFile(envsFile, envsYAML, 0644); err != nil {
		return fmt.Errorf("failed to create environments file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", envsFile)

	exampleContent := `# Example smoke checks. Run with:
#   smokecheck run example.smoke --env dev

prefix {{baseUrl}}

get-ok /health
assert body ok

get /does-not-exist
assert code 404

report
`

	if err := os.WriteFile(exampleFile, []byte(exampleContent), 0644); err != nil {
		return fmt.Errorf("failed to create example file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nsmokecheck project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'smokecheck run example.smoke' to execute the example checks.\n")

	return nil
}
