package sandbox

import (
	"net/http"
	"time"

	"github.com/sandboxhq/sandbox-go/version"
)

const (
	// DefaultBaseURL is used when ClientConfig.BaseURL is empty.
	DefaultBaseURL = "http://localhost:8000"
	// DefaultTimeout is used when ClientConfig.Timeout is zero or negative.
	DefaultTimeout = 30 * time.Second
	// DefaultContentType is sent on every request unless overridden.
	DefaultContentType = "application/json"
)

// ClientConfig configures a Client. It is copied by New and never changed
// afterwards.
type ClientConfig struct {
	// BaseURL is the root of the Sandbox API. Defaults to DefaultBaseURL.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,http_url"`

	// Timeout bounds each call end to end. Defaults to DefaultTimeout.
	// Config files and environment variables accept "30s" or milliseconds.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`

	// Headers are sent on every request, over the defaults.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
}

// ApplyDefaults fills in zero-value fields and merges Headers over the
// default headers. Header names are canonicalized; the caller's value wins.
func (c *ClientConfig) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}

	headers := map[string]string{
		"Content-Type": DefaultContentType,
		"User-Agent":   version.UserAgent(),
	}
	for k, v := range c.Headers {
		headers[http.CanonicalHeaderKey(k)] = v
	}
	c.Headers = headers
}

func (c ClientConfig) clone() ClientConfig {
	headers := make(map[string]string, len(c.Headers))
	for k, v := range c.Headers {
		headers[k] = v
	}
	c.Headers = headers
	return c
}
