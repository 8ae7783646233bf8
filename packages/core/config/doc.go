// Package config loads smokecheck configuration files.
//
// Configuration supplies defaults for flags the CLI exposes; flags always
// win over file values.
package config
