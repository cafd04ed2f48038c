package tn3270

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is a connection profile loadable from a YAML file, so a deployment
// can keep its host/port/TLS/codepage settings out of the command line.
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	Codepage string `yaml:"codepage"`
}

// LoadConfig reads and parses a YAML connection profile from path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}
