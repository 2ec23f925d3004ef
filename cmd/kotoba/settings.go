package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hyperjump/kotoba/internal/cli"
	"github.com/hyperjump/kotoba/internal/config"
	"github.com/hyperjump/kotoba/internal/vector"
)

// configKeys are the preferences "kotoba config set" can change.
var configKeys = []string{
	"debug",
	"embeddings.path",
	"embeddings.watch",
	"search.default_k",
	"search.max_k",
	"search.metric",
	"search.include_scores",
	"search.cache_size",
	"output.path",
	"output.append",
	"output.format",
	"server.host",
	"server.port",
	"storage.database_path",
}

// setConfigValue parses value for key and stores it in cfg.
func setConfigValue(cfg *config.Config, key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "debug":
		return setBool(&cfg.Debug, key, value)
	case "embeddings.path":
		cfg.Embeddings.Path = value
	case "embeddings.watch":
		return setBool(&cfg.Embeddings.Watch, key, value)
	case "search.default_k":
		return setInt(&cfg.Search.DefaultK, key, value)
	case "search.max_k":
		return setInt(&cfg.Search.MaxK, key, value)
	case "search.metric":
		m, err := vector.ParseMetric(value)
		if err != nil {
			return err
		}
		cfg.Search.Metric = m.Name()
	case "search.include_scores":
		return setBool(&cfg.Search.IncludeScores, key, value)
	case "search.cache_size":
		return setInt(&cfg.Search.CacheSize, key, value)
	case "output.path":
		cfg.Output.Path = value
	case "output.append":
		var b bool
		if err := setBool(&b, key, value); err != nil {
			return err
		}
		cfg.Output.Append = &b
	case "output.format":
		f, err := cli.ParseFormat(value)
		if err != nil {
			return err
		}
		cfg.Output.Format = string(f)
	case "server.host":
		cfg.Server.Host = value
	case "server.port":
		return setInt(&cfg.Server.Port, key, value)
	case "storage.database_path":
		cfg.Storage.DatabasePath = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s: %q is not a boolean", key, value)
	}
	*dst = b
	return nil
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s: %q is not an integer", key, value)
	}
	*dst = n
	return nil
}
