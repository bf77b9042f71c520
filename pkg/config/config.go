package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EndpointEnv overrides the configured endpoint when set
const EndpointEnv = "DGRAB_ENDPOINT"

type Config struct {
	// API Settings
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`

	// Feedback
	Notify      bool `yaml:"notify"`
	ToastMillis int  `yaml:"toast_millis"`

	// Gallery
	OpenGallery   bool   `yaml:"open_gallery"`
	GalleryViewer string `yaml:"gallery_viewer"`

	// UI Settings
	ColorTheme string `yaml:"color_theme"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		Endpoint:       "",
		TimeoutSeconds: 15,
		Notify:         true,
		ToastMillis:    1600,
		OpenGallery:    true,
		GalleryViewer:  "",
		ColorTheme:     "auto",
		LogLevel:       "info",
	}
}

// Load reads configuration from the specified file path and applies
// the environment override on top of it
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadFile reads the file alone; a missing file yields the defaults
func LoadFile(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults for essential values if missing
	if cfg.TimeoutSeconds < 0 {
		cfg.TimeoutSeconds = 15
	}
	if cfg.ToastMillis <= 0 {
		cfg.ToastMillis = 1600
	}
	if !isValidTheme(cfg.ColorTheme) {
		cfg.ColorTheme = "auto"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)

	return cfg, nil
}

func (c *Config) applyEnv() {
	if env := strings.TrimSpace(os.Getenv(EndpointEnv)); env != "" {
		c.Endpoint = env
	}
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Timeout returns the request timeout; zero means no timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ToastDuration returns how long transient messages stay visible
func (c *Config) ToastDuration() time.Duration {
	return time.Duration(c.ToastMillis) * time.Millisecond
}

// Keys lists the settable keys in display order
func Keys() []string {
	return []string{"endpoint", "timeout_seconds", "notify", "toast_millis", "open_gallery", "gallery_viewer", "color_theme", "log_level"}
}

// Get returns the string form of a config key
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "endpoint":
		return c.Endpoint, nil
	case "timeout_seconds":
		return strconv.Itoa(c.TimeoutSeconds), nil
	case "notify":
		return strconv.FormatBool(c.Notify), nil
	case "toast_millis":
		return strconv.Itoa(c.ToastMillis), nil
	case "open_gallery":
		return strconv.FormatBool(c.OpenGallery), nil
	case "gallery_viewer":
		return c.GalleryViewer, nil
	case "color_theme":
		return c.ColorTheme, nil
	case "log_level":
		return c.LogLevel, nil
	}
	return "", fmt.Errorf("unknown config key: %s", key)
}

// Set parses value and assigns it to key
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case "endpoint":
		c.Endpoint = value
	case "gallery_viewer":
		c.GalleryViewer = value
	case "log_level":
		c.LogLevel = value
	case "color_theme":
		if !isValidTheme(value) {
			return fmt.Errorf("invalid color_theme %q (use auto, dark or light)", value)
		}
		c.ColorTheme = value
	case "timeout_seconds", "toast_millis":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer", key)
		}
		if key == "timeout_seconds" {
			c.TimeoutSeconds = n
		} else {
			c.ToastMillis = n
		}
	case "notify", "open_gallery":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
		if key == "notify" {
			c.Notify = b
		} else {
			c.OpenGallery = b
		}
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func isValidTheme(theme string) bool {
	switch theme {
	case "auto", "dark", "light":
		return true
	}
	return false
}
