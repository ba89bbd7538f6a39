package server

import "fmt"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey, when set, grants admin access to requests carrying it in X-API-Key.
	ApiKey string `mapstructure:"api_key" default:""`
	// DefaultPageSize is the page size used when a list request has no limit.
	DefaultPageSize int `mapstructure:"default_page_size" default:"50"`
	// BodyLimitMB caps request bodies (bulk uploads, thumbnails).
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"16"`
}

// BodyLimit returns the request body limit in bytes.
func (c Config) BodyLimit() int {
	if c.BodyLimitMB <= 0 {
		return 16 * 1024 * 1024
	}
	return c.BodyLimitMB * 1024 * 1024
}

// Validate checks that the server settings are usable.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.DefaultPageSize <= 0 {
		return fmt.Errorf("default page size must be positive, got %d", c.DefaultPageSize)
	}
	return nil
}
