package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for restmatch
type Config struct {
	Client   ClientConfig   `yaml:"client"`
	Scaffold ScaffoldConfig `yaml:"scaffold"`
	Dev      DevConfig      `yaml:"dev"`
}

// ClientConfig holds defaults for the HTTP collaborator: which backend
// requests run against and which headers every request carries.
type ClientConfig struct {
	Host           string            `yaml:"host"`
	Port           int               `yaml:"port"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
	Headers        map[string]string `yaml:"headers"`
}

// ScaffoldConfig controls pattern scaffolding
type ScaffoldConfig struct {
	// BindVolatile replaces uuid- and timestamp-shaped strings with
	// bindings instead of literals.
	BindVolatile bool `yaml:"bind_volatile"`
	// Indent is the indentation unit of the emitted pattern.
	Indent string `yaml:"indent"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Client: ClientConfig{
			Host:           "http://localhost",
			Port:           80,
			TimeoutSeconds: 30,
			Headers:        make(map[string]string),
		},
		Scaffold: ScaffoldConfig{
			BindVolatile: true,
			Indent:       "    ",
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".restmatch.yml", ".restmatch.yaml", "restmatch.yml", "restmatch.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// LoadOrDefault loads the nearest config file, falling back to
// defaults when none exists.
func LoadOrDefault() (*Config, error) {
	path := FindConfigFile()
	if path == "" {
		return NewConfig(), nil
	}
	return LoadConfig(path)
}
