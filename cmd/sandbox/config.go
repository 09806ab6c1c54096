package main

import (
	"fmt"
	"time"

	"github.com/sandboxhq/sandbox-go"
	"github.com/sandboxhq/sandbox-go/config"
	"github.com/sandboxhq/sandbox-go/logger"
)

// cliConfig is everything the CLI reads from files and the environment.
type cliConfig struct {
	sandbox.ClientConfig `yaml:",inline" mapstructure:",squash"`

	Log  logger.Config `yaml:"log" mapstructure:"log"`
	Otel otelConfig    `yaml:"otel" mapstructure:"otel"`
}

type otelConfig struct {
	Endpoint    string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure    bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate  float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	Environment string  `yaml:"environment" mapstructure:"environment"`
}

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	baseURL      string
	timeout      time.Duration
	configFile   string
	envFile      string
	logLevel     string
	verbose      bool
	otelEndpoint string
}

// loadConfig reads file and environment configuration, then applies flags
// that were set explicitly.
func loadConfig(f globalFlags, changed func(name string) bool) (cliConfig, error) {
	cfg := cliConfig{
		Log:  logger.Config{Level: "warn", Format: logger.FormatConsole},
		Otel: otelConfig{Insecure: true, SampleRate: 1, Environment: "development"},
	}

	opts := []config.LoaderOption{config.WithEnvPrefix(sandbox.EnvPrefix)}
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if f.envFile != "" {
		opts = append(opts, config.WithEnvFile(f.envFile))
	}
	if err := config.LoadConfig(sandbox.ConfigName, &cfg, opts...); err != nil {
		return cliConfig{}, err
	}

	if changed("base-url") {
		cfg.BaseURL = f.baseURL
	}
	if changed("timeout") {
		cfg.Timeout = f.timeout
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if f.verbose {
		cfg.Log.Level = "debug"
	}
	if changed("otel-endpoint") {
		cfg.Otel.Endpoint = f.otelEndpoint
	}

	cfg.Log.ApplyDefaults()
	if err := cfg.Log.Validate(); err != nil {
		return cliConfig{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
