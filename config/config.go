package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for the application
type Config struct {
	// Content generator configuration
	Gateway GatewayConfig `json:"gateway"`

	// Save slot configuration
	Storage StorageConfig `json:"storage"`

	// Game configuration
	Game GameConfig `json:"game"`

	// Server configuration
	Server ServerConfig `json:"server"`
}

// GatewayConfig holds content generator specific configuration
type GatewayConfig struct {
	// Gemini API key; usually supplied through the environment
	APIKey string `json:"api_key,omitempty" env:"GEMINI_API_KEY"`

	// Gemini model name
	Model string `json:"model" env:"GEMINI_MODEL"`

	// Attempts per request before giving up
	Attempts int `json:"attempts" env:"GATEWAY_ATTEMPTS"`

	// Pause between attempts in milliseconds
	BackoffMS int `json:"backoff_ms" env:"GATEWAY_BACKOFF_MS"`

	// Hard timeout of a single attempt in seconds
	AttemptTimeoutSeconds int `json:"attempt_timeout_seconds" env:"GATEWAY_ATTEMPT_TIMEOUT_SECONDS"`
}

// StorageConfig holds save slot specific configuration
type StorageConfig struct {
	// Save store driver (file, sqlite3)
	Driver string `json:"driver" env:"STORAGE_DRIVER"`

	// Directory for the file driver
	Dir string `json:"dir" env:"STORAGE_DIR"`

	// Database path for the sqlite3 driver
	DSN string `json:"dsn" env:"STORAGE_DSN"`

	// Key of the single save slot
	SaveKey string `json:"save_key" env:"STORAGE_SAVE_KEY"`
}

// GameConfig holds game specific configuration
type GameConfig struct {
	// Calendar year in which a new lineage is founded
	StartYear int `json:"start_year"`

	// Directory holding an optional catalog.yaml
	DataDir string `json:"data_dir" env:"GAME_DATA_DIR"`

	// Snapshots kept for rollback
	MaxCheckpoints int `json:"max_checkpoints"`

	// Months an event costs when the generator does not say
	DefaultTimeCost int `json:"default_time_cost"`

	// Yearly probability of a world event (0-1)
	WorldEventChance float64 `json:"world_event_chance"`

	// Yearly probability of re-rolling the economy (0-1)
	EconomyRollChance float64 `json:"economy_roll_chance"`

	// Fixed random seed; 0 seeds from the clock
	Seed int64 `json:"seed" env:"GAME_SEED"`
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	// Server port
	Port string `json:"port" env:"PORT"`

	// Log level (debug, info, warn, error)
	LogLevel string `json:"log_level" env:"LOG_LEVEL"`

	// Request timeout in seconds; must cover every gateway attempt
	RequestTimeoutSeconds int `json:"request_timeout_seconds"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Gateway: GatewayConfig{
			Model:                 "gemini-2.5-flash",
			Attempts:              3,
			BackoffMS:             750,
			AttemptTimeoutSeconds: 60,
		},
		Storage: StorageConfig{
			Driver:  "file",
			Dir:     "./data/saves",
			DSN:     "./data/vida-loka.db",
			SaveKey: "vida-loka-save",
		},
		Game: GameConfig{
			StartYear:         1980,
			DataDir:           "./data",
			MaxCheckpoints:    10,
			DefaultTimeCost:   3,
			WorldEventChance:  0.3,
			EconomyRollChance: 0.25,
		},
		Server: ServerConfig{
			Port:                  "8080",
			LogLevel:              "info",
			RequestTimeoutSeconds: 240,
		},
	}
}

// LoadConfig loads configuration from a file and applies environment
// overrides on top
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return config, err
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Create default config file
		if err := SaveConfig(config, path); err != nil {
			return config, err
		}
	} else {
		// Read config file
		file, err := os.Open(path)
		if err != nil {
			return config, err
		}
		defer file.Close()

		decoder := json.NewDecoder(file)
		if err := decoder.Decode(&config); err != nil {
			return config, err
		}
	}

	if err := ParseEnv(&config); err != nil {
		return config, err
	}
	return config, nil
}

// ParseEnv overrides target fields from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// SaveConfig saves configuration to a file. The API key is never written.
func SaveConfig(config Config, path string) error {
	config.Gateway.APIKey = ""

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Create or truncate file
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Write config to file
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return err
	}

	return nil
}
