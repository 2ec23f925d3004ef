// Package config provides configuration loading and structs for kotoba.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/hyperjump/kotoba/internal/vector"
)

// EnvPrefix prefixes every environment override, e.g. KOTOBA_SEARCH_DEFAULT_K.
const EnvPrefix = "KOTOBA"

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Search     SearchConfig     `yaml:"search"`
	Output     OutputConfig     `yaml:"output"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
}

// EmbeddingsConfig locates the embeddings file.
type EmbeddingsConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// SearchConfig holds ranking defaults.
type SearchConfig struct {
	DefaultK      int    `yaml:"default_k" split_words:"true"`
	MaxK          int    `yaml:"max_k" split_words:"true"`
	Metric        string `yaml:"metric"`
	IncludeScores bool   `yaml:"include_scores" split_words:"true"`
	CacheSize     int    `yaml:"cache_size" split_words:"true"`
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	Path   string `yaml:"path"`
	Append *bool  `yaml:"append"`
	Format string `yaml:"format"`
}

// AppendOrDefault returns whether results are appended to the output file; defaults to true when unset.
func (o *OutputConfig) AppendOrDefault() bool {
	if o.Append != nil {
		return *o.Append
	}
	return true
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the query history database location.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path" split_words:"true"`
}

// Output formats understood by the result writers.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Load reads and parses the config file at path, applies environment overrides,
// expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}

	ApplyDefaults(&cfg)

	expandPaths(&cfg, filepath.Dir(path))
	return &cfg, nil
}

// LoadOrDefault loads path when it exists and otherwise starts from the defaults.
// Environment overrides apply in both cases.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		cfg, err := Load(path)
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
	}
	cfg := &Config{}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(cfg)
	expandPaths(cfg, ".")
	return cfg, nil
}

// ApplyEnv overrides cfg from KOTOBA_* environment variables.
func ApplyEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

// Save writes the config to path. Used to persist preferences changed from the CLI.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Search.DefaultK < 1 {
		return fmt.Errorf("search.default_k must be at least 1, got %d", c.Search.DefaultK)
	}
	if c.Search.MaxK < c.Search.DefaultK {
		return fmt.Errorf("search.max_k (%d) must not be below search.default_k (%d)", c.Search.MaxK, c.Search.DefaultK)
	}
	if _, err := vector.ParseMetric(c.Search.Metric); err != nil {
		return fmt.Errorf("search.metric: %w", err)
	}
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatXLSX:
	default:
		return fmt.Errorf("output.format must be one of text, json, xlsx, got %q", c.Output.Format)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// MetricOrDefault returns the configured metric, or the default metric when it does not parse.
func (c *Config) MetricOrDefault() vector.Metric {
	m, err := vector.ParseMetric(c.Search.Metric)
	if err != nil {
		return vector.DefaultMetric
	}
	return m
}

func expandPaths(cfg *Config, configDir string) {
	cfg.Embeddings.Path = expandPath(cfg.Embeddings.Path, configDir)
	cfg.Output.Path = expandPath(cfg.Output.Path, configDir)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// "~/" paths are relative to the home directory. Other relative paths are kept as given.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
