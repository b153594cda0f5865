package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Store   StoreConfig   `toml:"store"`
	Logging LoggingConfig `toml:"logging"`
	Ngrok   NgrokConfig   `toml:"ngrok"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port          string `toml:"port"`
	Host          string `toml:"host"`
	AllowedOrigin string `toml:"allowed_origin"`
	ReadTimeout   int    `toml:"read_timeout_seconds"`
}

// StoreConfig contains playlist store configuration
type StoreConfig struct {
	Path           string `toml:"path"`
	MaxConnections int    `toml:"max_connections"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level          string `toml:"level"`
	Format         string `toml:"format"`
	File           string `toml:"file"`
	RequestLogging bool   `toml:"request_logging"`
}

// NgrokConfig contains ngrok tunnel configuration. The tunnel gives a
// self-hosted instance a public URL the mobile client can reach.
type NgrokConfig struct {
	Enabled   bool   `toml:"enabled"`
	AuthToken string `toml:"auth_token"`
	Domain    string `toml:"domain"`
	Region    string `toml:"region"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          "8080",
			Host:          "0.0.0.0",
			AllowedOrigin: "*",
			ReadTimeout:   30,
		},
		Store: StoreConfig{
			Path:           "./vidstash.db",
			MaxConnections: 5,
		},
		Logging: LoggingConfig{
			Level:          "info",
			Format:         "text",
			File:           "",
			RequestLogging: true,
		},
		Ngrok: NgrokConfig{
			Enabled:   false,
			AuthToken: "",
			Domain:    "",
			Region:    "us",
		},
	}
}

// LoadConfig loads configuration from a TOML file, creating a default file
// if none exists. Values from the process environment (optionally supplied
// through a .env file) override the file.
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Config file doesn't exist, create it with defaults
		if err := cfg.SaveToFile(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config file: %w", err)
		}
		fmt.Printf("Created default configuration file at: %s\n", configPath)
	} else {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides layers environment variables over the file-based
// configuration. A .env file in the working directory is honored if present.
func (c *Config) applyEnvOverrides() {
	if _, err := os.Stat(".env"); err == nil {
		// Best effort; a broken .env just means no overrides from it.
		_ = godotenv.Load(".env")
	}

	if v := os.Getenv("VIDSTASH_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("VIDSTASH_ALLOWED_ORIGIN"); v != "" {
		c.Server.AllowedOrigin = v
	}
	if v := os.Getenv("VIDSTASH_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("NGROK_AUTHTOKEN"); v != "" {
		c.Ngrok.AuthToken = v
	}
}

// SaveToFile saves the configuration to a TOML file
func (c *Config) SaveToFile(configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	header := `# Vidstash Configuration
# Backend for the vidstash mobile client: saves YouTube links into named
# playlists. Edit the values below to customize your server settings.

`
	if _, err := file.WriteString(header); err != nil {
		return fmt.Errorf("failed to write config header: %w", err)
	}

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config to TOML: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if c.Server.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Server.AllowedOrigin == "" {
		return fmt.Errorf("server allowed origin cannot be empty")
	}
	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Store.Path == "" {
		return fmt.Errorf("store path cannot be empty")
	}
	if c.Store.MaxConnections < 1 {
		return fmt.Errorf("store max connections must be at least 1")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"text": true, "json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Logging.Format)
	}

	return nil
}

// GetAddress returns the full server address
func (c *Config) GetAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}
