// Package config loads configuration from YAML files, .env files and
// environment variables into mapstructure-tagged structs.
//
// # Usage
//
//	var cfg sandbox.ClientConfig
//	err := config.LoadConfig("sandbox", &cfg, config.WithEnvPrefix("SANDBOX_"))
//
// Sources are applied in order: the YAML file, then the .env file, then the
// process environment. With a prefix, only variables carrying it are bound and
// the prefix is stripped: SANDBOX_BASE_URL sets base_url (and base.url).
//
// Durations accept Go duration strings ("5s") or plain numbers, which are
// read as milliseconds. String maps accept a JSON object string.
package config
