package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
// It defines the remote API endpoint, console behavior, and theme.
type Config struct {
	API struct {
		BaseURL        string `yaml:"base_url"`        // Remote collection API endpoint
		TimeoutSeconds int    `yaml:"timeout_seconds"` // Per-request timeout
		PerPage        int    `yaml:"per_page"`        // Posts per list page
	} `yaml:"api"`
	UI struct {
		StartRoute          string `yaml:"start_route"`          // Landing route when none is given
		NotificationCap     int    `yaml:"notification_cap"`     // Max simultaneously visible notifications
		NotificationSeconds int    `yaml:"notification_seconds"` // Auto-dismiss delay
		DebounceMillis      int    `yaml:"debounce_millis"`      // Search input idle window
		AnimationMillis     int    `yaml:"animation_millis"`     // Modal enter/exit transition delay
	} `yaml:"ui"`
	Theme struct {
		Name     string `yaml:"name"`     // Theme name (default, dark, light, etc.)
		Primary  string `yaml:"primary"`  // Primary color for branding
		Success  string `yaml:"success"`  // Success message color
		Warning  string `yaml:"warning"`  // Warning message color
		Error    string `yaml:"error"`    // Error message color
		Info     string `yaml:"info"`     // Informational message color
		Emphasis string `yaml:"emphasis"` // Emphasis color for text that should stand out
		Border   string `yaml:"border"`   // Border color for frames
	} `yaml:"theme"`
}

// Dir returns the postdeck configuration directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "postdeck"), nil
}

// DefaultPath returns the default config file location
// (~/.config/postdeck/config.yaml).
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if file doesn't exist
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if tempCfg.API.BaseURL != "" {
		cfg.API.BaseURL = tempCfg.API.BaseURL
	}
	if tempCfg.API.TimeoutSeconds > 0 {
		cfg.API.TimeoutSeconds = tempCfg.API.TimeoutSeconds
	}
	if tempCfg.API.PerPage > 0 {
		cfg.API.PerPage = tempCfg.API.PerPage
	}

	if tempCfg.UI.StartRoute != "" {
		cfg.UI.StartRoute = tempCfg.UI.StartRoute
	}
	if tempCfg.UI.NotificationCap > 0 {
		cfg.UI.NotificationCap = tempCfg.UI.NotificationCap
	}
	if tempCfg.UI.NotificationSeconds > 0 {
		cfg.UI.NotificationSeconds = tempCfg.UI.NotificationSeconds
	}
	if tempCfg.UI.DebounceMillis > 0 {
		cfg.UI.DebounceMillis = tempCfg.UI.DebounceMillis
	}
	if tempCfg.UI.AnimationMillis > 0 {
		cfg.UI.AnimationMillis = tempCfg.UI.AnimationMillis
	}

	if tempCfg.Theme.Name != "" {
		cfg.ApplyTheme(tempCfg.Theme.Name)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.API.BaseURL = "http://localhost:8080"
	cfg.API.TimeoutSeconds = 15
	cfg.API.PerPage = 10

	cfg.UI.StartRoute = "dashboard"
	cfg.UI.NotificationCap = 5
	cfg.UI.NotificationSeconds = 4
	cfg.UI.DebounceMillis = 300
	cfg.UI.AnimationMillis = 150

	cfg.ApplyTheme("default")

	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.API.BaseURL = "http://localhost:0"
	cfg.API.PerPage = 5
	cfg.UI.NotificationSeconds = 1
	cfg.UI.DebounceMillis = 10
	cfg.UI.AnimationMillis = 0
	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("api base_url is required")
	}
	if c.API.TimeoutSeconds < 1 {
		return fmt.Errorf("api timeout must be >= 1 second")
	}
	if c.API.PerPage < 1 || c.API.PerPage > 100 {
		return fmt.Errorf("per_page must be between 1 and 100")
	}

	if c.UI.StartRoute == "" {
		return fmt.Errorf("start_route is required")
	}
	if c.UI.NotificationCap < 1 {
		return fmt.Errorf("notification_cap must be >= 1")
	}
	if c.UI.NotificationSeconds < 1 {
		return fmt.Errorf("notification_seconds must be >= 1")
	}
	if c.UI.DebounceMillis < 0 {
		return fmt.Errorf("debounce_millis must be >= 0")
	}
	if c.UI.AnimationMillis < 0 {
		return fmt.Errorf("animation_millis must be >= 0")
	}

	return nil
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "213", // Purple
			"success":  "114", // Green
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "39",  // Blue
			"emphasis": "212", // Light Pink
			"border":   "213", // Purple
		},
		"dark": {
			"primary":  "105", // Dark Blue
			"success":  "78",  // Dark Green
			"warning":  "214", // Dark Yellow
			"error":    "160", // Dark Red
			"info":     "33",  // Dark Blue
			"emphasis": "147", // Light Blue
			"border":   "105", // Dark Blue
		},
		"light": {
			"primary":  "135", // Light Purple
			"success":  "150", // Light Green
			"warning":  "222", // Light Yellow
			"error":    "210", // Light Red
			"info":     "117", // Light Blue
			"emphasis": "219", // Very Light Pink
			"border":   "135", // Light Purple
		},
		"monochrome": {
			"primary":  "245", // Light Grey
			"success":  "252", // White
			"warning":  "241", // Medium Grey
			"error":    "232", // Black
			"info":     "248", // Grey
			"emphasis": "255", // Bright White
			"border":   "245", // Light Grey
		},
		"ocean": {
			"primary":  "31",  // Teal
			"success":  "36",  // Green-Blue
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "33",  // Blue
			"emphasis": "51",  // Cyan
			"border":   "31",  // Teal
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ApplyTheme sets the theme in the configuration.
// It updates the theme colors based on the theme name.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome", "ocean"}
}
