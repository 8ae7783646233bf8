// Package cmd implements the smokecheck CLI commands using Cobra.
//
// Available commands:
//   - run: Execute smoke scripts against a live deployment
//   - validate: Check script syntax without executing
//   - list: Display the requests and checks a script defines
//   - history: Show results of past runs
//   - init: Create a starter script and environments file
//   - version: Show smokecheck version information
//
// The run command supports machine-readable output formats, watch mode
// for development, and a repeat mode that reports latency percentiles.
package cmd
