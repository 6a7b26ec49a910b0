package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Env variables recognized by Load. They override whatever the config
// file says, so one deployment file can serve paper and live runs.
const (
	EnvDBPath = "TRADELEDGER_DB"
	EnvMode   = "TRADELEDGER_MODE"
)

// Config holds everything the ledger process needs at startup.
type Config struct {
	Ledger  LedgerConfig  `json:"ledger" yaml:"ledger"`
	Trading TradingConfig `json:"trading" yaml:"trading"`
}

// LedgerConfig locates the SQLite database.
type LedgerConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// TradingConfig carries the defaults stamped onto recorded trades.
type TradingConfig struct {
	Mode     string `json:"mode" yaml:"mode"` // "paper" or "live"
	Currency string `json:"currency" yaml:"currency"`
}

// Load reads the config file (YAML first, JSON fallback), then applies
// .env and environment overrides. The .env file is optional.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	// Best effort; a missing .env is not an error.
	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Ledger.DBPath = v
	}
	if v := os.Getenv(EnvMode); v != "" {
		c.Trading.Mode = v
	}
}

// SaveToFile writes the config out, YAML or JSON by extension.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.Ledger.DBPath == "" {
		return fmt.Errorf("ledger.db_path is required")
	}
	if c.Trading.Mode != "paper" && c.Trading.Mode != "live" {
		return fmt.Errorf("trading.mode must be 'paper' or 'live'")
	}
	if c.Trading.Currency == "" {
		return fmt.Errorf("trading.currency is required")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Ledger: LedgerConfig{
			DBPath: "./tradeledger.sqlite",
		},
		Trading: TradingConfig{
			Mode:     "paper",
			Currency: "KRW",
		},
	}
}
