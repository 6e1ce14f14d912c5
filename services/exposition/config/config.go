package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ScrapeConfig defines a single JSON endpoint sampling rule for the HTTP provider
type ScrapeConfig struct {
	Name     string            `toml:"Name"`
	URL      string            `toml:"URL"`
	Path     string            `toml:"Path"`
	Kind     string            `toml:"Kind"`
	Metadata map[string]string `toml:"Metadata"`
}

// Config maps to the config.toml file for the exposition service
type Config struct {
	Name                     string            `toml:"Name"`
	ListenAddress            string            `toml:"ListenAddress"`
	CaptureIntervalInSeconds uint32            `toml:"CaptureIntervalInSeconds"`
	ScrapeTimeoutInSeconds   uint32            `toml:"ScrapeTimeoutInSeconds"`
	RetentionSeconds         int               `toml:"RetentionSeconds"`
	Format                   string            `toml:"Format"`
	Metadata                 map[string]string `toml:"Metadata"`
	Scrapes                  []ScrapeConfig    `toml:"Scrapes"`
}

// LoadConfig parses a TOML file into the Config struct
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	var cfg Config
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &cfg, nil
}
