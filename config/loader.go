package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sandboxhq/sandbox-go/logger"
)

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	ReadEnv(path string) (map[string]string, error)
	Environ() []string
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ReadEnv parses a .env file without touching the process environment.
func (rfs *RealFileSystem) ReadEnv(path string) (map[string]string, error) {
	return godotenv.Read(path)
}

func (rfs *RealFileSystem) Environ() []string {
	return os.Environ()
}

// Resolver handles finding and resolving config and env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles finds config and env files for name.
// Returns explicit paths if provided, otherwise searches for them.
func (cr *Resolver) ResolveFiles(name string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}

	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.firstExisting(configSearchPaths(name))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.firstExisting(envSearchPaths(name))
	}

	return resolved
}

func (cr *Resolver) firstExisting(paths []string) string {
	for _, path := range paths {
		if cr.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// configSearchPaths lists <name>.yml candidates in lookup order.
func configSearchPaths(name string) []string {
	paths := make([]string, 0, 8)
	for _, dir := range []string{".", "./config", "../config"} {
		paths = append(paths,
			fmt.Sprintf("%s/%s.yml", dir, name),
			fmt.Sprintf("%s/%s.yaml", dir, name),
		)
	}
	return paths
}

// envSearchPaths lists .env.<name> and .env candidates in lookup order.
func envSearchPaths(name string) []string {
	var paths []string
	for _, file := range []string{".env." + name, ".env"} {
		for _, dir := range []string{".", "./config"} {
			paths = append(paths, dir+"/"+file)
		}
	}
	return paths
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
	EnvPrefix  string // Only variables with this prefix are bound (optional)
	Logger     *logger.Logger
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path. A missing file is an error.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path. A missing file is an error.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix binds only environment variables starting with prefix,
// e.g. "SANDBOX_". The match is case-insensitive.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// WithLogger reports which files were loaded.
func WithLogger(log *logger.Logger) LoaderOption {
	return func(lc *LoaderConfig) { lc.Logger = log }
}

// LoadConfig loads configuration for name into the provided cfg struct.
// It searches for <name>.yml and .env files in standard locations, binds
// environment variables, and unmarshals the result into cfg.
func LoadConfig(name string, cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}
	if lc.Logger == nil {
		lc.Logger = logger.Nop()
	}

	for _, explicit := range []string{lc.ConfigFile, lc.EnvFile} {
		if explicit != "" && !lc.FileSystem.Exists(explicit) {
			return fmt.Errorf("config file %s not found", explicit)
		}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(name, lc)

	return loadFromResolvedFiles(name, cfg, files, lc)
}

// loadFromResolvedFiles loads configuration from specific files.
func loadFromResolvedFiles(name string, cfg interface{}, files ResolvedFiles, lc LoaderConfig) error {
	log := lc.Logger.WithComponent("config")
	v := viper.New()

	// 1. YAML config first (base configuration)
	if files.ConfigFile != "" {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", files.ConfigFile, err)
		}
		log.Debug("loaded config file", logger.Fields("path", files.ConfigFile))
	}

	// 2. .env values, then the process environment on top
	if files.EnvFile != "" {
		values, err := lc.FileSystem.ReadEnv(files.EnvFile)
		if err != nil {
			return fmt.Errorf("failed to read env file %s: %w", files.EnvFile, err)
		}
		for key, value := range values {
			bindEnvVar(v, lc.EnvPrefix, key, value)
		}
		log.Debug("loaded env file", logger.Fields("path", files.EnvFile, "count", len(values)))
	}
	autoBindEnvVars(v, lc.EnvPrefix, lc.FileSystem.Environ())

	// 3. Unmarshal into config struct
	if err := v.Unmarshal(cfg, viper.DecodeHook(DecodeHook())); err != nil {
		return fmt.Errorf("failed to unmarshal config for %s: %w", name, err)
	}

	return nil
}

// DecodeHook is the mapstructure hook used by LoadConfig.
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		millisecondsDurationHook(),
		stringMapHook(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// autoBindEnvVars binds KEY=value pairs to Viper by converting
// UPPER_CASE_WITH_UNDERSCORES to multiple possible nested key formats.
func autoBindEnvVars(v *viper.Viper, prefix string, environ []string) {
	for _, env := range environ {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 {
			continue
		}
		bindEnvVar(v, prefix, pair[0], pair[1])
	}
}

func bindEnvVar(v *viper.Viper, prefix, key, value string) {
	if prefix != "" {
		if len(key) <= len(prefix) || !strings.EqualFold(key[:len(prefix)], prefix) {
			return
		}
		key = key[len(prefix):]
	}
	for _, variant := range generateEnvKeyVariants(key) {
		v.Set(variant, value)
	}
}

// generateEnvKeyVariants creates all possible key variants for environment variable binding.
// Examples:
//
//	BASE_URL -> [base_url, base.url]
//	LOG_NO_COLOR -> [log_no_color, log.no.color, log.no_color]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")

	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.ReplaceAll(lowerKey, "_", "."),
	}

	// Generate progressive nesting patterns
	for i := 1; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], ".")
		suffix := strings.Join(parts[i:], "_")
		variants = append(variants, prefix+"."+suffix)
	}

	return removeDuplicates(variants)
}

// removeDuplicates removes duplicate strings from a slice.
func removeDuplicates(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))

	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}

	return result
}
