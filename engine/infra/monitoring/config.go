package monitoring

import (
	"fmt"
	"strings"
)

// Config holds configuration for the monitoring service.
type Config struct {
	Enabled bool
	Path    string
}

func DefaultConfig() *Config {
	return &Config{
		Enabled: false,
		Path:    "/metrics",
	}
}

func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("monitoring path cannot be empty")
	}
	if c.Path[0] != '/' {
		return fmt.Errorf("monitoring path must start with '/': got %s", c.Path)
	}
	if c.Path == "/mcp" || strings.HasPrefix(c.Path, "/mcp/") {
		return fmt.Errorf("monitoring path cannot be under /mcp")
	}
	if strings.ContainsRune(c.Path, '?') {
		return fmt.Errorf("monitoring path cannot contain query parameters")
	}
	return nil
}
