package config

import "github.com/hyperjump/kotoba/internal/vector"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Embeddings.Path == "" {
		cfg.Embeddings.Path = "./word-embeddings.txt"
	}
	if cfg.Search.DefaultK == 0 {
		cfg.Search.DefaultK = 10
	}
	if cfg.Search.MaxK == 0 {
		cfg.Search.MaxK = 1000
	}
	if cfg.Search.Metric == "" {
		cfg.Search.Metric = vector.DefaultMetric.Name()
	}
	if cfg.Search.CacheSize == 0 {
		cfg.Search.CacheSize = 256
	}
	if cfg.Output.Path == "" {
		cfg.Output.Path = "./out.txt"
	}
	if cfg.Output.Append == nil {
		t := true
		cfg.Output.Append = &t
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = FormatText
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "~/.kotoba/history.db"
	}
}
