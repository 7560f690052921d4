package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mmcdole/docketwatch/internal/domain"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	appName   = "docketwatch"
	envPrefix = "DOCKETWATCH"

	DefaultServerURL = "https://gaming-news-api.onrender.com/api"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Scan    ScanConfig    `mapstructure:"scan"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
	Cache   CacheConfig   `mapstructure:"cache"`
}

// ServerConfig holds tracker API configuration
type ServerConfig struct {
	URL   string `mapstructure:"url"`   // API root, including the /api prefix
	Token string `mapstructure:"token"` // optional bearer token
}

// ScanConfig holds scan session defaults
type ScanConfig struct {
	FullHoursBack   int           `mapstructure:"full_hours_back"`
	TargetHoursBack int           `mapstructure:"target_hours_back"`
	SettleDelay     time.Duration `mapstructure:"settle_delay"`
	Schedule        string        `mapstructure:"schedule"` // cron spec for -watch; empty disables
}

// UIConfig holds dashboard defaults
type UIConfig struct {
	DefaultView     string `mapstructure:"default_view"`
	DefaultPriority string `mapstructure:"default_priority"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// CacheConfig holds the offline cache location
type CacheConfig struct {
	Dir string `mapstructure:"dir"` // empty keeps the cache in memory
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL: DefaultServerURL,
		},
		Scan: ScanConfig{
			FullHoursBack:   168,
			TargetHoursBack: 8760,
			SettleDelay:     2 * time.Second,
		},
		UI: UIConfig{
			DefaultView:     string(domain.ViewRecent),
			DefaultPriority: string(domain.PriorityAll),
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
		Cache: CacheConfig{
			Dir: defaultCachePath(),
		},
	}
}

// Filter returns the dashboard's initial listing filter
func (c *Config) Filter() domain.Filter {
	return domain.Filter{
		View:     domain.ParseView(c.UI.DefaultView),
		Priority: domain.ParsePriority(c.UI.DefaultPriority),
	}
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server.url %q is not an absolute URL", c.Server.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.url scheme must be http or https, got %q", u.Scheme)
	}
	if c.Scan.FullHoursBack < 0 {
		return errors.New("scan.full_hours_back must not be negative")
	}
	if c.Scan.TargetHoursBack < 0 {
		return errors.New("scan.target_hours_back must not be negative")
	}
	if c.Scan.SettleDelay < 0 {
		return errors.New("scan.settle_delay must not be negative")
	}
	if c.Scan.Schedule != "" {
		if _, err := cron.ParseStandard(c.Scan.Schedule); err != nil {
			return fmt.Errorf("scan.schedule: %w", err)
		}
	}
	return nil
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName, appName+".log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName, appName+".log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// defaultCachePath returns the default cache directory for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), appName, "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName, "cache")
	}
}

// newViper returns a viper instance seeded with every default so that
// environment overrides apply to keys absent from the file.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("server.url", d.Server.URL)
	v.SetDefault("server.token", d.Server.Token)
	v.SetDefault("scan.full_hours_back", d.Scan.FullHoursBack)
	v.SetDefault("scan.target_hours_back", d.Scan.TargetHoursBack)
	v.SetDefault("scan.settle_delay", d.Scan.SettleDelay)
	v.SetDefault("scan.schedule", d.Scan.Schedule)
	v.SetDefault("ui.default_view", d.UI.DefaultView)
	v.SetDefault("ui.default_priority", d.UI.DefaultPriority)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("cache.dir", d.Cache.Dir)
	return v
}

// LoadConfig loads configuration from the default locations and environment
func LoadConfig() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.AddConfigPath(defaultConfigPath())
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}
	return decode(v)
}

// LoadConfigFile loads configuration from an explicit file path
func LoadConfigFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to the default config file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return SaveConfigFile(cfg, filepath.Join(configPath, "config.yaml"))
}

// SaveConfigFile writes cfg to path as YAML
func SaveConfigFile(cfg *Config, path string) error {
	v := viper.New()

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("server.url", cfg.Server.URL)
	v.Set("server.token", cfg.Server.Token)

	v.Set("scan.full_hours_back", cfg.Scan.FullHoursBack)
	v.Set("scan.target_hours_back", cfg.Scan.TargetHoursBack)
	v.Set("scan.settle_delay", cfg.Scan.SettleDelay.String())
	v.Set("scan.schedule", cfg.Scan.Schedule)

	v.Set("ui.default_view", cfg.UI.DefaultView)
	v.Set("ui.default_priority", cfg.UI.DefaultPriority)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	v.Set("cache.dir", cfg.Cache.Dir)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
