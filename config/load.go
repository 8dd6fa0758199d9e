package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "TATREC_"
	// PathEnvVar names a config file when no explicit path is given.
	PathEnvVar = "TATREC_CONFIG"
)

// DefaultPaths are searched, in order, when no config file is named.
var DefaultPaths = []string{"tatrec.yaml", "tatrec.yml"}

var sliceKeys = []string{"catalog.extensions"}

// Load builds the configuration from defaults, the YAML file at path (or
// the first file found via TATREC_CONFIG and DefaultPaths when path is
// empty) and environment overrides, then validates it.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path == "" {
		path = findFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}
	if err := splitSlices(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envKey maps TATREC_INDEX_HASH_SIZE to index.hash_size. TATREC_CONFIG
// names the file and is not a key.
func envKey(name string) string {
	if name == PathEnvVar {
		return ""
	}
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	section, field, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}
	return section + "." + field
}

// splitSlices turns comma-separated env values into lists.
func splitSlices(k *koanf.Koanf) error {
	for _, key := range sliceKeys {
		raw, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		var items []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		if err := k.Set(key, items); err != nil {
			return fmt.Errorf("config: set %s: %w", key, err)
		}
	}
	return nil
}
