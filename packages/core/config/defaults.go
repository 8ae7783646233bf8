package config

// DefaultTimeout is the request timeout in milliseconds when not configured
const DefaultTimeout = 30000

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Timeout: DefaultTimeout,
		Headers: map[string]string{},
		Output:  "console",
	}
}
