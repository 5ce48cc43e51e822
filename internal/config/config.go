package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Simulator holds all configuration shared by the tcgpx binaries.
type Simulator struct {
	// Content
	TablesDir   string `yaml:"tables_dir" env:"TCGPX_TABLES_DIR"`
	CatalogFile string `yaml:"catalog_file" env:"TCGPX_CATALOG"`
	DecksFile   string `yaml:"decks_file" env:"TCGPX_DECKS"`

	// Network
	Port    string `yaml:"port" env:"TCGPX_PORT"`
	WebPort int    `yaml:"web_port" env:"TCGPX_WEB_PORT"`

	Match MatchConfig `yaml:"match"`
}

// MatchConfig holds per-match rule settings.
type MatchConfig struct {
	Seed            int64 `yaml:"seed" env:"TCGPX_SEED"` // 0 = random
	MaxTurns        int   `yaml:"max_turns" env:"TCGPX_MAX_TURNS"`
	InitialHandSize int   `yaml:"initial_hand_size"`
	BenchSize       int   `yaml:"bench_size"`
	WeaknessBonus   int   `yaml:"weakness_bonus"`
	NoShuffle       bool  `yaml:"no_shuffle"`
}

// Default returns the configuration with sensible defaults.
func Default() Simulator {
	return Simulator{
		TablesDir:   "data/tables",
		CatalogFile: "data/catalog.yaml",
		DecksFile:   "data/decks.yaml",
		Port:        "9000",
		WebPort:     8080,
		Match: MatchConfig{
			MaxTurns:        60,
			InitialHandSize: 5,
			BenchSize:       3,
			WeaknessBonus:   20,
		},
	}
}

// Load reads configuration from a YAML file, then applies TCGPX_*
// environment overrides. If the file doesn't exist, defaults are used.
func Load(path string) (Simulator, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParseEnv loads configuration overrides from environment variables.
// Fields whose variable is unset keep their current value.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
