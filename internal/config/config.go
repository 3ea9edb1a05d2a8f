// Package config loads the contabot.yaml configuration, with environment
// overrides for deployment secrets (a .env file is honored when present).
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envDatabaseURL overrides database.url when set.
const envDatabaseURL = "DATABASE_URL"

// Config is the top-level contabot.yaml configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Kafka    KafkaConfig    `yaml:"kafka,omitempty"`
}

// DatabaseConfig points at the backing store.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// DefaultsConfig makes the engine's implicit fallbacks explicit and
// overridable per deployment.
type DefaultsConfig struct {
	// PaymentMethod is the account name assumed when an intent names
	// no payment method.
	PaymentMethod string `yaml:"payment_method"`
	// FallbackCode is the reserved miscellaneous account code for
	// auto-created accounts without a usable suggested code.
	FallbackCode string `yaml:"fallback_code"`
}

// KafkaConfig enables event publishing when brokers are listed.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers,omitempty"`
}

// Load reads a contabot.yaml file and applies environment overrides.
func Load(path string) (*Config, error) {
	// Best-effort: a missing .env is not an error.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if url := os.Getenv(envDatabaseURL); url != "" {
		cfg.Database.URL = url
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the configuration a fresh deployment starts from.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			URL: "postgres://localhost:5432/contabot?sslmode=disable",
		},
		Defaults: DefaultsConfig{
			PaymentMethod: "Efectivo en Bolsillo",
			FallbackCode:  "5995-01",
		},
	}
}
