// Package env resolves {{...}} expressions in script arguments and loads
// named variable sets from a smoke.yaml environments file.
package env
