package config

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file from path, env-expands it, merges it
// over Defaults(), and validates the result — the same load → expand →
// merge → validate pipeline as the teacher's config.Initialize.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		if err := NewValidator(cfg).ValidateAll(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var loaded Config
	if err := yaml.Unmarshal(ExpandEnv(raw), &loaded); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	if err := mergo.Merge(cfg, loaded, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("config: failed to merge %s over defaults: %w", path, err)
	}

	if err := NewValidator(cfg).ValidateAll(); err != nil {
		return nil, err
	}
	return cfg, nil
}
