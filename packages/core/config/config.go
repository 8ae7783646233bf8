package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds file-level defaults for a smokecheck run
type Config struct {
	DefaultEnvironment string            `json:"defaultEnvironment,omitempty"`
	Timeout            int               `json:"timeout,omitempty"` // milliseconds
	FollowRedirects    *bool             `json:"followRedirects,omitempty"`
	ValidateSSL        *bool             `json:"validateSSL,omitempty"`
	Proxy              string            `json:"proxy,omitempty"`
	NoProxy            string            `json:"noProxy,omitempty"`
	Headers            map[string]string `json:"headers,omitempty"` // default headers for all requests
	Output             string            `json:"output,omitempty"`  // console, json, tap, junit
	HistoryFile        string            `json:"historyFile,omitempty"`
	NoColor            *bool             `json:"noColor,omitempty"`
	Debug              *bool             `json:"debug,omitempty"`
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetValidateSSL returns the validate SSL setting, defaulting to true
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetDebug returns the debug setting, defaulting to false
func (c *Config) GetDebug() bool {
	return getBool(c.Debug, false)
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".smokecheck.json",
	"smokecheck.json",
	".smokecheckrc",
}

// LoadConfig loads configuration from the specified path or searches for
// config files in the current directory
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}
	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
