package sandbox

import (
	"github.com/sandboxhq/sandbox-go/config"
)

// EnvPrefix is the prefix of environment variables read by LoadConfig,
// e.g. SANDBOX_BASE_URL, SANDBOX_TIMEOUT (ms or "30s") and SANDBOX_HEADERS
// (a JSON object).
const EnvPrefix = "SANDBOX_"

// ConfigName is the base name of the config files read by LoadConfig:
// sandbox.yml, .env.sandbox and .env.
const ConfigName = "sandbox"

// LoadConfig reads a ClientConfig from sandbox.yml, .env files and SANDBOX_*
// environment variables. Defaults are not applied.
func LoadConfig(opts ...config.LoaderOption) (ClientConfig, error) {
	var cfg ClientConfig
	opts = append([]config.LoaderOption{config.WithEnvPrefix(EnvPrefix)}, opts...)
	if err := config.LoadConfig(ConfigName, &cfg, opts...); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

// NewFromEnv creates a Client from LoadConfig's result.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}
