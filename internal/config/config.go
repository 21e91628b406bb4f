// Package config loads the optional YAML configuration. Only
// peripheral knobs live here: pool sizing and cosmetic header naming.
// Nothing in this file changes the semantics of flattened cell values,
// and the core pipeline reads no environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"jsontab/internal/errors"
)

// Config represents the complete configuration for jsontab
type Config struct {
	Arena   ArenaConfig   `yaml:"arena"`
	Headers HeadersConfig `yaml:"headers"`
}

// ArenaConfig controls memory pool sizing. Each pool's capacity is
// input_length * multiplier + floor; pools never grow mid-run, so the
// multipliers must stay generous.
type ArenaConfig struct {
	PermanentMultiplier int `yaml:"permanent_multiplier"`
	PermanentFloor      int `yaml:"permanent_floor"`
	TemporaryMultiplier int `yaml:"temporary_multiplier"`
	TemporaryFloor      int `yaml:"temporary_floor"`
}

// HeadersConfig controls the printed header row. Case renames only the
// emitted column names; dotted-key lookup inside rows is unaffected.
type HeadersConfig struct {
	Case string `yaml:"case"`
}

// Valid header case transforms.
const (
	CaseNone   = "none"
	CaseSnake  = "snake"
	CaseCamel  = "camel"
	CasePascal = "pascal"
	CaseKebab  = "kebab"
)

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Arena: ArenaConfig{
			PermanentMultiplier: 8,
			PermanentFloor:      1 << 20,
			TemporaryMultiplier: 2,
			TemporaryFloor:      1 << 20,
		},
		Headers: HeadersConfig{
			Case: CaseNone,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(
			fmt.Sprintf("failed to read config file '%s'", path), err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError(
			fmt.Sprintf("failed to parse config file '%s'", path), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in the current directory
// and its parents, returning the empty string when none exists.
func FindConfigFile() string {
	configNames := []string{".jsontab.yml", ".jsontab.yaml", "jsontab.yml", "jsontab.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks option values and multiplier sanity
func (c *Config) Validate() error {
	switch strings.ToLower(c.Headers.Case) {
	case "", CaseNone, CaseSnake, CaseCamel, CasePascal, CaseKebab:
	default:
		return errors.NewConfigError(
			fmt.Sprintf("unknown headers.case '%s' (expected none, snake, camel, pascal or kebab)", c.Headers.Case), nil)
	}
	if c.Arena.PermanentMultiplier < 1 || c.Arena.TemporaryMultiplier < 1 {
		return errors.NewConfigError("arena multipliers must be at least 1", nil)
	}
	if c.Arena.PermanentFloor < 0 || c.Arena.TemporaryFloor < 0 {
		return errors.NewConfigError("arena floors must not be negative", nil)
	}
	return nil
}

// HeaderTransform returns the rename applied to printed column names,
// or nil when headers are emitted verbatim. The transform is applied
// per dotted-path segment so the '.' separators survive (strcase would
// otherwise fold them into the delimiter).
func (c *Config) HeaderTransform() func(string) string {
	var fn func(string) string
	switch strings.ToLower(c.Headers.Case) {
	case CaseSnake:
		fn = strcase.ToSnake
	case CaseCamel:
		fn = strcase.ToLowerCamel
	case CasePascal:
		fn = strcase.ToCamel
	case CaseKebab:
		fn = strcase.ToKebab
	default:
		return nil
	}
	return func(key string) string {
		parts := strings.Split(key, ".")
		for i, part := range parts {
			parts[i] = fn(part)
		}
		return strings.Join(parts, ".")
	}
}
