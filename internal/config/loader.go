package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"modelkit/pkg/types"
)

// Config holds runtime parameters for the CLI and server.
// Zero values mean "unspecified" and will be replaced by flag/env defaults.
type Config struct {
	Addr          string   `json:"addr" yaml:"addr" toml:"addr"`
	ModelsDir     string   `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	OutputDir     string   `json:"output_dir" yaml:"output_dir" toml:"output_dir"`
	DefaultPreset string   `json:"default_preset" yaml:"default_preset" toml:"default_preset"`
	LogLevel      string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	OllamaBin     string   `json:"ollama_bin" yaml:"ollama_bin" toml:"ollama_bin"`
	CORSOrigins   []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	// Manifest carries the directive values for render/write commands.
	Manifest types.ManifestRequest `json:"manifest" yaml:"manifest" toml:"manifest"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
