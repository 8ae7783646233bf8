package cmd

// Exit codes for the smokecheck CLI
const (
	// ExitSuccess indicates every check passed
	ExitSuccess = 0

	// ExitCheckFailure indicates one or more checks failed
	ExitCheckFailure = 1

	// ExitParseError indicates a script parsing error
	ExitParseError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
