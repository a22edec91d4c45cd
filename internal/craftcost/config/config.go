// Package config loads the server configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the crafting cost server.
type Config struct {
	// Paths
	DBPath    string `yaml:"db_path"`
	ItemsPath string `yaml:"items_path"`

	// Market data source
	Nexushub NexushubConfig `yaml:"nexushub"`
}

// NexushubConfig holds settings for the NexusHub price API.
type NexushubConfig struct {
	BaseURL     string `yaml:"base_url"`
	CacheTTLSec int    `yaml:"cache_ttl_sec"`
}

// CacheTTL returns the snapshot cache TTL as a duration.
func (n NexushubConfig) CacheTTL() time.Duration {
	return time.Duration(n.CacheTTLSec) * time.Second
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		DBPath:    "data/craftcost.db",
		ItemsPath: "data/crafting.json",
		Nexushub: NexushubConfig{
			BaseURL:     "", // empty uses the public endpoint
			CacheTTLSec: 1800,
		},
	}
}

// Load loads the config from a YAML file over the defaults.
// If the file doesn't exist, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
