package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Catalog CatalogConfig `toml:"catalog"`
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
	UI      UIConfig      `toml:"ui"`
	Session SessionConfig `toml:"session"`
	Ngrok   NgrokConfig   `toml:"ngrok"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port            string  `toml:"port"`
	Host            string  `toml:"host"`
	StaticDir       string  `toml:"static_dir"`
	EnableCORS      bool    `toml:"enable_cors"`
	ReadTimeout     int     `toml:"read_timeout_seconds"`
	WriteTimeout    int     `toml:"write_timeout_seconds"`
	ShutdownTimeout int     `toml:"shutdown_timeout_seconds"`
	RateLimit       float64 `toml:"rate_limit"` // requests per second per client address, 0 disables
	RateBurst       int     `toml:"rate_burst"`
}

// CatalogConfig points at the dataset and the media it references
type CatalogConfig struct {
	DataPath         string   `toml:"data_path"`
	MediaDir         string   `toml:"media_dir"`
	SupportedFormats []string `toml:"supported_formats"`
	WatchForChanges  bool     `toml:"watch_for_changes"`
	ProbeMedia       bool     `toml:"probe_media"`
}

// StorageConfig selects the key/value backend for persisted client data
type StorageConfig struct {
	Driver         string `toml:"driver"` // sqlite or memory
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

// UIConfig holds view sizing knobs
type UIConfig struct {
	FeaturedCount int `toml:"featured_count"`
	SearchLimit   int `toml:"search_limit"`
	EagerImages   int `toml:"eager_images"`
}

// SessionConfig controls client identification
type SessionConfig struct {
	CookieName    string `toml:"cookie_name"`
	IdleTimeout   string `toml:"idle_timeout"`
	SecureCookies bool   `toml:"secure_cookies"`
}

// NgrokConfig contains ngrok tunnel configuration
type NgrokConfig struct {
	Enabled      bool   `toml:"enabled"`
	AuthToken    string `toml:"auth_token"`
	Domain       string `toml:"domain"`
	EnableAuth   bool   `toml:"enable_auth"`
	AuthProvider string `toml:"auth_provider"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Host:            "0.0.0.0",
			StaticDir:       "./static",
			EnableCORS:      false,
			ReadTimeout:     30,
			WriteTimeout:    60,
			ShutdownTimeout: 10,
			RateLimit:       50,
			RateBurst:       100,
		},
		Catalog: CatalogConfig{
			DataPath:         "./data/songs.json",
			MediaDir:         "./media",
			SupportedFormats: []string{".mp3", ".flac", ".wav", ".m4a"},
			WatchForChanges:  true,
			ProbeMedia:       true,
		},
		Storage: StorageConfig{
			Driver:         "sqlite",
			Path:           "./cadence.db",
			MaxConnections: 5,
		},
		Logging: LoggingConfig{
			Level:          "info",
			Format:         "text",
			File:           "",
			RequestLogging: true,
		},
		UI: UIConfig{
			FeaturedCount: 12,
			SearchLimit:   20,
			EagerImages:   6,
		},
		Session: SessionConfig{
			CookieName:    "cadence_client",
			IdleTimeout:   "30m",
			SecureCookies: false,
		},
		Ngrok: NgrokConfig{
			Enabled:      false,
			AuthProvider: "google",
		},
	}
}

// LoadConfig loads configuration from a TOML file, creating it with defaults
// when missing, then applies environment overrides.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := cfg.SaveToFile(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config file: %w", err)
		}
		fmt.Printf("Created default configuration file at: %s\n", configPath)
	} else if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.ApplyEnv(".env"); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ApplyEnv loads envFile (if present) into the process environment and
// overrides matching settings.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("could not load %s: %w", envFile, err)
			}
		}
	}

	if v := os.Getenv("CADENCE_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("CADENCE_DATA_PATH"); v != "" {
		c.Catalog.DataPath = v
	}
	if v := os.Getenv("CADENCE_DB_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("NGROK_AUTHTOKEN"); v != "" && c.Ngrok.AuthToken == "" {
		c.Ngrok.AuthToken = v
	}
	return nil
}

// SaveToFile saves the configuration to a TOML file
func (c *Config) SaveToFile(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	header := `# Cadence Configuration
# Catalog, storage and server settings for the Cadence music player.

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
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server rate limit cannot be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		return fmt.Errorf("server rate burst must be at least 1 when rate limiting is enabled")
	}

	if c.Catalog.DataPath == "" {
		return fmt.Errorf("catalog data path cannot be empty")
	}
	if len(c.Catalog.SupportedFormats) == 0 {
		return fmt.Errorf("at least one supported audio format must be specified")
	}

	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage path cannot be empty for sqlite driver")
		}
		if c.Storage.MaxConnections < 1 {
			return fmt.Errorf("storage max connections must be at least 1")
		}
	case "memory":
	default:
		return fmt.Errorf("invalid storage driver: %s (must be sqlite or memory)", c.Storage.Driver)
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

	if c.UI.FeaturedCount < 1 || c.UI.SearchLimit < 1 {
		return fmt.Errorf("ui featured_count and search_limit must be at least 1")
	}
	if c.UI.EagerImages < 0 {
		return fmt.Errorf("ui eager_images cannot be negative")
	}

	if c.Session.CookieName == "" {
		return fmt.Errorf("session cookie name cannot be empty")
	}
	if _, err := c.Session.IdleDuration(); err != nil {
		return fmt.Errorf("invalid session idle timeout: %w", err)
	}

	return nil
}

// IdleDuration parses the session idle timeout
func (s SessionConfig) IdleDuration() (time.Duration, error) {
	d, err := time.ParseDuration(s.IdleTimeout)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s.IdleTimeout)
	}
	return d, nil
}

// GetAddress returns the full server address
func (c *Config) GetAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// IsFormatSupported checks if an audio format is supported
func (c *Config) IsFormatSupported(format string) bool {
	for _, supported := range c.Catalog.SupportedFormats {
		if supported == format {
			return true
		}
	}
	return false
}
