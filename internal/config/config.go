// Package config loads taskboard settings from defaults, an optional YAML
// file, .env files and the environment.
package config

import (
	"time"

	"github.com/abatilo/taskboard/internal/normalize"
	"github.com/abatilo/taskboard/internal/task"
)

const (
	xdgAppName = "taskboard"
	configFile = "config.yaml"
)

// Config is the complete taskboard configuration.
type Config struct {
	Source     SourceConfig      `koanf:"source"`
	Notion     NotionConfig      `koanf:"notion"`
	Partitions map[string]string `koanf:"partitions" validate:"dive,oneof=high medium low"`
	Normalize  NormalizeConfig   `koanf:"normalize"`
	Refresh    RefreshConfig     `koanf:"refresh"`
	Server     ServerConfig      `koanf:"server"`
	View       ViewConfig        `koanf:"view"`
	Log        LogConfig         `koanf:"log"`
}

// SourceConfig locates the data source endpoint the dashboard reads.
type SourceConfig struct {
	URL     string        `koanf:"url"     validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
	Retries int           `koanf:"retries" validate:"gte=0,lte=10"`
}

// NotionConfig configures the Notion-backed producer served by "serve".
type NotionConfig struct {
	Token     string            `koanf:"token"`
	Version   string            `koanf:"version"   validate:"required"`
	BaseURL   string            `koanf:"base_url"  validate:"required,url"`
	PageSize  int               `koanf:"page_size" validate:"gt=0,lte=100"`
	Retries   uint64            `koanf:"retries"   validate:"lte=10"`
	Databases map[string]string `koanf:"databases"`
}

// NormalizeConfig tunes record normalization.
type NormalizeConfig struct {
	PartitionPriority bool `koanf:"partition_priority"`
}

// RefreshConfig controls periodic refresh. A zero interval disables it.
type RefreshConfig struct {
	Interval time.Duration `koanf:"interval" validate:"gte=0"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `koanf:"addr" validate:"required"`
}

// ViewConfig holds the initial view settings.
type ViewConfig struct {
	Filter    string        `koanf:"filter"`
	Sort      string        `koanf:"sort"`
	Layout    string        `koanf:"layout"     validate:"oneof=board tv mobile"`
	TVRotate  time.Duration `koanf:"tv_rotate"  validate:"gt=0"`
	ToastTime time.Duration `koanf:"toast_time" validate:"gt=0"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			URL:     "http://localhost:8000/api/notion_entries",
			Timeout: 15 * time.Second, //nolint:mnd // default
			Retries: 2,                //nolint:mnd // default
		},
		Notion: NotionConfig{
			Version:  "2022-06-28",
			BaseURL:  "https://api.notion.com/v1",
			PageSize: 100, //nolint:mnd // Notion maximum
			Retries:  3,   //nolint:mnd // default
			Databases: map[string]string{
				"db1": "",
				"db2": "",
				"db3": "",
			},
		},
		Partitions: map[string]string{
			"db1": string(task.PartitionHigh),
			"db2": string(task.PartitionMedium),
			"db3": string(task.PartitionLow),
		},
		Refresh: RefreshConfig{Interval: 5 * time.Minute}, //nolint:mnd // default
		Server:  ServerConfig{Addr: ":8000"},
		View: ViewConfig{
			Filter:    "all",
			Sort:      "priority",
			Layout:    "board",
			TVRotate:  10 * time.Second, //nolint:mnd // default
			ToastTime: 3 * time.Second,  //nolint:mnd // default
		},
		Log: LogConfig{Level: "info"},
	}
}

// PartitionMap converts the configured partition lookup.
func (c *Config) PartitionMap() normalize.PartitionMap {
	if len(c.Partitions) == 0 {
		return normalize.DefaultPartitions()
	}
	m := make(normalize.PartitionMap, len(c.Partitions))
	for key, p := range c.Partitions {
		m[key] = task.Partition(p)
	}
	return m
}

// NormalizeOptions converts the normalization settings.
func (c *Config) NormalizeOptions() normalize.Options {
	return normalize.Options{PartitionPriorityFallback: c.Normalize.PartitionPriority}
}
