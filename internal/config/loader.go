package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// envMappings maps environment variables to config paths. The unprefixed
// names are the ones the Notion backend has always read.
//
//nolint:gochecknoglobals // lookup table
var envMappings = map[string]string{
	"TASKBOARD_SOURCE_URL":                   "source.url",
	"TASKBOARD_SOURCE_TIMEOUT":               "source.timeout",
	"TASKBOARD_SOURCE_RETRIES":               "source.retries",
	"TASKBOARD_NOTION_TOKEN":                 "notion.token",
	"TASKBOARD_NOTION_VERSION":               "notion.version",
	"TASKBOARD_NOTION_BASE_URL":              "notion.base_url",
	"TASKBOARD_NOTION_PAGE_SIZE":             "notion.page_size",
	"TASKBOARD_NOTION_RETRIES":               "notion.retries",
	"TASKBOARD_NORMALIZE_PARTITION_PRIORITY": "normalize.partition_priority",
	"TASKBOARD_REFRESH_INTERVAL":             "refresh.interval",
	"TASKBOARD_SERVER_ADDR":                  "server.addr",
	"TASKBOARD_VIEW_FILTER":                  "view.filter",
	"TASKBOARD_VIEW_SORT":                    "view.sort",
	"TASKBOARD_VIEW_LAYOUT":                  "view.layout",
	"TASKBOARD_VIEW_TV_ROTATE":               "view.tv_rotate",
	"TASKBOARD_VIEW_TOAST_TIME":              "view.toast_time",
	"TASKBOARD_LOG_LEVEL":                    "log.level",
	"TASKBOARD_LOG_JSON":                     "log.json",
	"NOTION_TOKEN":                           "notion.token",
	"DATABASE_ID_1":                          "notion.databases.db1",
	"DATABASE_ID_2":                          "notion.databases.db2",
	"DATABASE_ID_3":                          "notion.databases.db3",
}

// LoadOptions selects the sources Load reads.
type LoadOptions struct {
	// ConfigFile is an explicit YAML file. When empty, ./taskboard.yaml and
	// ~/.config/taskboard/config.yaml are tried in that order.
	ConfigFile string
	// EnvFile is a dotenv file merged under the process environment.
	// When empty, ./.env is used if present.
	EnvFile string
	// Environ overrides os.Environ, for tests.
	Environ func() []string
}

// Load builds the configuration: defaults, then the YAML file, then
// environment variables (including .env entries not already set).
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path, err := resolveConfigFile(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err = k.Load(yamlFile{path: path}, nil); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	environ, err := environment(opts)
	if err != nil {
		return nil, err
	}
	if err = k.Load(env.Provider(".", env.Opt{
		EnvironFunc: func() []string { return environ },
		TransformFunc: func(key, value string) (string, any) {
			return envMappings[key], value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err = k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err = validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func resolveConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return explicit, nil
	}

	candidates := []string{"taskboard.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", xdgAppName, configFile))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", nil
}

// mergeEnv appends dotenv entries for keys base does not already set.
func mergeEnv(base []string, dotenv map[string]string) []string {
	set := make(map[string]bool, len(base))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		set[key] = true
	}
	out := append([]string(nil), base...)
	for key, value := range dotenv {
		if !set[key] {
			out = append(out, key+"="+value)
		}
	}
	return out
}

func environment(opts LoadOptions) ([]string, error) {
	base := os.Environ()
	if opts.Environ != nil {
		base = opts.Environ()
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	dotenv, err := godotenv.Read(envFile)
	if err != nil {
		if os.IsNotExist(err) && opts.EnvFile == "" {
			return base, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
	}
	return mergeEnv(base, dotenv), nil
}

// yamlFile is a koanf provider reading a YAML document.
type yamlFile struct {
	path string
}

func (f yamlFile) ReadBytes() ([]byte, error) {
	return os.ReadFile(f.path)
}

func (f yamlFile) Read() (map[string]any, error) {
	data, err := f.ReadBytes()
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err = yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
