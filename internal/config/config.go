// Package config loads daemon settings from an env file and environment
// overrides, and watches the env file for live changes.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const envPrefix = "VENEER_"

// Config is the daemon's runtime configuration snapshot. Snapshots are
// immutable once returned; reloads produce a fresh value.
type Config struct {
	ListenAddr  string
	MetricsAddr string
	DataDir     string

	LogLevel  string
	LogFormat string

	// DecorationsEnabled drives the registrar's enabled/disabled state.
	DecorationsEnabled bool
	// IgnorePatterns are wildcard globs; matching URIs are never decorated.
	IgnorePatterns []string

	// APITokenHash is a bcrypt hash. Empty means open access.
	APITokenHash string
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		ListenAddr:         "127.0.0.1:7420",
		MetricsAddr:        "127.0.0.1:7421",
		DataDir:            "/etc/veneer",
		LogLevel:           "info",
		LogFormat:          "auto",
		DecorationsEnabled: true,
	}
}

// Load builds a configuration from defaults, the env file under the data
// directory, and finally process environment overrides.
func Load() (*Config, error) {
	cfg := Defaults()

	if dir := os.Getenv(envPrefix + "DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}

	vars, err := readEnvFile(cfg.EnvPath())
	if err != nil {
		return nil, err
	}
	cfg.apply(vars)
	cfg.apply(processEnv())

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// EnvPath returns the env file location for this configuration.
func (c *Config) EnvPath() string {
	return filepath.Join(c.DataDir, ".env")
}

// Validate rejects configurations the daemon cannot start with.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.ListenAddr == c.MetricsAddr {
		return fmt.Errorf("listen and metrics addresses must differ")
	}
	return nil
}

func readEnvFile(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return vars, nil
}

func processEnv() map[string]string {
	vars := make(map[string]string)
	for _, entry := range os.Environ() {
		key, value, ok := strings.Cut(entry, "=")
		if ok && strings.HasPrefix(key, envPrefix) {
			vars[key] = value
		}
	}
	return vars
}

func (c *Config) apply(vars map[string]string) {
	for key, value := range vars {
		switch key {
		case envPrefix + "LISTEN":
			c.ListenAddr = value
		case envPrefix + "METRICS_LISTEN":
			c.MetricsAddr = value
		case envPrefix + "DATA_DIR":
			c.DataDir = value
		case envPrefix + "LOG_LEVEL":
			c.LogLevel = value
		case envPrefix + "LOG_FORMAT":
			c.LogFormat = value
		case envPrefix + "DECORATIONS_ENABLED":
			if enabled, err := strconv.ParseBool(value); err == nil {
				c.DecorationsEnabled = enabled
			} else {
				log.Warn().Str("key", key).Str("value", value).Msg("Ignoring unparsable boolean")
			}
		case envPrefix + "DECORATIONS_IGNORE":
			c.IgnorePatterns = splitPatterns(value)
		case envPrefix + "API_TOKEN_HASH":
			c.APITokenHash = value
		}
	}
}

func splitPatterns(value string) []string {
	var patterns []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}
