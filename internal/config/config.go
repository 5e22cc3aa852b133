// Package config provides configuration management for dreadline.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the dreadline application.
type Config struct {
	FirstRun      bool               `mapstructure:"first_run"`
	Flow          FlowSettings       `mapstructure:"flow"`
	Estimator     EstimatorConfig    `mapstructure:"estimator"`
	Taunt         TauntConfig        `mapstructure:"taunt"`
	Share         ShareConfig        `mapstructure:"share"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	MCP           MCPConfig          `mapstructure:"mcp"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// FlowSettings holds the session flow settings.
type FlowSettings struct {
	HoldDuration        Duration `mapstructure:"hold_duration"`
	CancelReasonEnabled bool     `mapstructure:"cancel_reason_enabled"`
}

// EstimatorConfig holds the deadline estimator settings. The API key is
// never stored in the file; it comes from the DREADLINE_API_KEY
// environment variable.
type EstimatorConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	BaseURL         string   `mapstructure:"base_url"`
	Model           string   `mapstructure:"model"`
	Timeout         Duration `mapstructure:"timeout"`
	FallbackMinutes int      `mapstructure:"fallback_minutes"`
	MinMinutes      int      `mapstructure:"min_minutes"`
	MaxMinutes      int      `mapstructure:"max_minutes"`
}

// TauntConfig holds the taunt generation settings. It reuses the
// estimator endpoint and key; only the prompt differs.
type TauntConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Timeout Duration `mapstructure:"timeout"`
}

// ShareConfig holds the shame-card share settings.
type ShareConfig struct {
	Clipboard bool `mapstructure:"clipboard"`
	Terminal  bool `mapstructure:"terminal"`
}

// NotificationConfig holds desktop notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ThemeConfig holds theme customization settings (colors and icons).
type ThemeConfig struct {
	ColorActive          string `mapstructure:"color_active"`
	ColorOverdue         string `mapstructure:"color_overdue"`
	ColorSuccess         string `mapstructure:"color_success"`
	ColorFailure         string `mapstructure:"color_failure"`
	ColorTitle           string `mapstructure:"color_title"`
	ColorTask            string `mapstructure:"color_task"`
	ColorHelp            string `mapstructure:"color_help"`
	ActiveGradientStart  string `mapstructure:"active_gradient_start"`
	ActiveGradientEnd    string `mapstructure:"active_gradient_end"`
	OverdueGradientStart string `mapstructure:"overdue_gradient_start"`
	OverdueGradientEnd   string `mapstructure:"overdue_gradient_end"`
	HoldGradientStart    string `mapstructure:"hold_gradient_start"`
	HoldGradientEnd      string `mapstructure:"hold_gradient_end"`
	IconApp              string `mapstructure:"icon_app"`
	IconTask             string `mapstructure:"icon_task"`
	IconGit              string `mapstructure:"icon_git"`
	IconOverdue          string `mapstructure:"icon_overdue"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorActive:          "#7C6FE0",
		ColorOverdue:         "#E05C5C",
		ColorSuccess:         "#2ECC71",
		ColorFailure:         "#E05C5C",
		ColorTitle:           "#6B7280",
		ColorTask:            "#A0AEC0",
		ColorHelp:            "#95A5A6",
		ActiveGradientStart:  "#7C6FE0",
		ActiveGradientEnd:    "#A78BFA",
		OverdueGradientStart: "#E05C5C",
		OverdueGradientEnd:   "#F59E0B",
		HoldGradientStart:    "#E05C5C",
		HoldGradientEnd:      "#991B1B",
		IconApp:              "⏳",
		IconTask:             "📋",
		IconGit:              "🌿",
		IconOverdue:          "💀",
	}
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		FirstRun: true,
		Flow: FlowSettings{
			HoldDuration:        Duration(3 * time.Second),
			CancelReasonEnabled: true,
		},
		Estimator: EstimatorConfig{
			Enabled:         true,
			BaseURL:         "https://api.openai.com/v1",
			Model:           "gpt-4o-mini",
			Timeout:         Duration(10 * time.Second),
			FallbackMinutes: 60,
			MinMinutes:      30,
			MaxMinutes:      180,
		},
		Taunt: TauntConfig{
			Enabled: true,
			Timeout: Duration(10 * time.Second),
		},
		Share: ShareConfig{
			Clipboard: true,
			Terminal:  true,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		Theme: DefaultThemeConfig(),
	}
}

// APIKey returns the estimator API key from the environment. An empty
// key disables remote calls; adapters fall back locally.
func APIKey() string {
	return os.Getenv("DREADLINE_API_KEY")
}

// Load loads the configuration from the config file.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("toml")

	// Set defaults
	setDefaults()

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Save saves the configuration to the config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("toml")

	// Set all values
	viper.Set("first_run", cfg.FirstRun)
	viper.Set("flow.hold_duration", cfg.Flow.HoldDuration.String())
	viper.Set("flow.cancel_reason_enabled", cfg.Flow.CancelReasonEnabled)
	viper.Set("estimator.enabled", cfg.Estimator.Enabled)
	viper.Set("estimator.base_url", cfg.Estimator.BaseURL)
	viper.Set("estimator.model", cfg.Estimator.Model)
	viper.Set("estimator.timeout", cfg.Estimator.Timeout.String())
	viper.Set("estimator.fallback_minutes", cfg.Estimator.FallbackMinutes)
	viper.Set("estimator.min_minutes", cfg.Estimator.MinMinutes)
	viper.Set("estimator.max_minutes", cfg.Estimator.MaxMinutes)
	viper.Set("taunt.enabled", cfg.Taunt.Enabled)
	viper.Set("taunt.timeout", cfg.Taunt.Timeout.String())
	viper.Set("share.clipboard", cfg.Share.Clipboard)
	viper.Set("share.terminal", cfg.Share.Terminal)
	viper.Set("notifications.enabled", cfg.Notifications.Enabled)
	viper.Set("notifications.sound", cfg.Notifications.Sound)
	viper.Set("mcp.enabled", cfg.MCP.Enabled)
	viper.Set("theme.color_active", cfg.Theme.ColorActive)
	viper.Set("theme.color_overdue", cfg.Theme.ColorOverdue)
	viper.Set("theme.color_success", cfg.Theme.ColorSuccess)
	viper.Set("theme.color_failure", cfg.Theme.ColorFailure)
	viper.Set("theme.color_title", cfg.Theme.ColorTitle)
	viper.Set("theme.color_task", cfg.Theme.ColorTask)
	viper.Set("theme.color_help", cfg.Theme.ColorHelp)
	viper.Set("theme.active_gradient_start", cfg.Theme.ActiveGradientStart)
	viper.Set("theme.active_gradient_end", cfg.Theme.ActiveGradientEnd)
	viper.Set("theme.overdue_gradient_start", cfg.Theme.OverdueGradientStart)
	viper.Set("theme.overdue_gradient_end", cfg.Theme.OverdueGradientEnd)
	viper.Set("theme.hold_gradient_start", cfg.Theme.HoldGradientStart)
	viper.Set("theme.hold_gradient_end", cfg.Theme.HoldGradientEnd)
	viper.Set("theme.icon_app", cfg.Theme.IconApp)
	viper.Set("theme.icon_task", cfg.Theme.IconTask)
	viper.Set("theme.icon_git", cfg.Theme.IconGit)
	viper.Set("theme.icon_overdue", cfg.Theme.IconOverdue)

	return viper.WriteConfig()
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".dreadline", "config.toml"), nil
}

// setDefaults sets default values for viper.
func setDefaults() {
	viper.SetDefault("first_run", true)
	viper.SetDefault("flow.hold_duration", "3s")
	viper.SetDefault("flow.cancel_reason_enabled", true)
	viper.SetDefault("estimator.enabled", true)
	viper.SetDefault("estimator.base_url", "https://api.openai.com/v1")
	viper.SetDefault("estimator.model", "gpt-4o-mini")
	viper.SetDefault("estimator.timeout", "10s")
	viper.SetDefault("estimator.fallback_minutes", 60)
	viper.SetDefault("estimator.min_minutes", 30)
	viper.SetDefault("estimator.max_minutes", 180)
	viper.SetDefault("taunt.enabled", true)
	viper.SetDefault("taunt.timeout", "10s")
	viper.SetDefault("share.clipboard", true)
	viper.SetDefault("share.terminal", true)
	viper.SetDefault("notifications.enabled", true)
	viper.SetDefault("notifications.sound", true)
	viper.SetDefault("mcp.enabled", true)

	// Theme defaults
	defaults := DefaultThemeConfig()
	viper.SetDefault("theme.color_active", defaults.ColorActive)
	viper.SetDefault("theme.color_overdue", defaults.ColorOverdue)
	viper.SetDefault("theme.color_success", defaults.ColorSuccess)
	viper.SetDefault("theme.color_failure", defaults.ColorFailure)
	viper.SetDefault("theme.color_title", defaults.ColorTitle)
	viper.SetDefault("theme.color_task", defaults.ColorTask)
	viper.SetDefault("theme.color_help", defaults.ColorHelp)
	viper.SetDefault("theme.active_gradient_start", defaults.ActiveGradientStart)
	viper.SetDefault("theme.active_gradient_end", defaults.ActiveGradientEnd)
	viper.SetDefault("theme.overdue_gradient_start", defaults.OverdueGradientStart)
	viper.SetDefault("theme.overdue_gradient_end", defaults.OverdueGradientEnd)
	viper.SetDefault("theme.hold_gradient_start", defaults.HoldGradientStart)
	viper.SetDefault("theme.hold_gradient_end", defaults.HoldGradientEnd)
	viper.SetDefault("theme.icon_app", defaults.IconApp)
	viper.SetDefault("theme.icon_task", defaults.IconTask)
	viper.SetDefault("theme.icon_git", defaults.IconGit)
	viper.SetDefault("theme.icon_overdue", defaults.IconOverdue)
}

// ToFlowConfig converts the config to the domain flow configuration.
func (c *Config) ToFlowConfig() (holdDuration time.Duration, cancelReason, estimator bool) {
	return time.Duration(c.Flow.HoldDuration), c.Flow.CancelReasonEnabled, c.Estimator.Enabled
}
