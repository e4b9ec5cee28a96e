// ABOUTME: Daybook configuration loaded with viper from file, env and defaults.
// ABOUTME: Resolves data, archive and log locations and opens storage.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/daybook/internal/storage"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. DAYBOOK_DATA_DIR.
const EnvPrefix = "DAYBOOK"

// Config stores daybook configuration.
type Config struct {
	// DataDir is the root directory for data storage. daybook.db lives here.
	// Supports ~ expansion. Defaults to ~/.local/share/daybook.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir,omitempty"`

	// Debug mirrors logs to stderr at debug level.
	Debug bool `mapstructure:"debug" yaml:"debug,omitempty"`

	// ArchiveDir holds the snapshot archive. Defaults to <data_dir>/archive.
	ArchiveDir string `mapstructure:"archive_dir" yaml:"archive_dir,omitempty"`

	// AIDailyLimit overrides the daily assistant quota stored in settings.
	// Zero keeps the stored limit.
	AIDailyLimit int `mapstructure:"ai_daily_limit" yaml:"ai_daily_limit,omitempty"`

	path string
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// DBPath returns the SQLite database path.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), "daybook.db")
}

// GetArchiveDir returns the archive directory with ~ expanded.
func (c *Config) GetArchiveDir() string {
	if c.ArchiveDir == "" {
		return filepath.Join(c.GetDataDir(), "archive")
	}
	return ExpandPath(c.ArchiveDir)
}

// Path returns the file the config was loaded from, or the default path.
func (c *Config) Path() string {
	if c.path != "" {
		return c.path
	}
	return GetConfigPath()
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the SQLite store at DBPath.
func (c *Config) OpenStorage() (*storage.DB, error) {
	return storage.Open(c.DBPath())
}

// ConfigDir returns the daybook config directory following the XDG base directory layout.
func ConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "daybook")
}

// GetConfigPath returns the default config file path.
func GetConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Load reads configuration from configFile, or from the default locations
// when configFile is empty. A missing default file is not an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(ConfigDir())
	}

	v.SetDefault("data_dir", "")
	v.SetDefault("debug", false)
	v.SetDefault("archive_dir", "")
	v.SetDefault("ai_daily_limit", 0)

	v.SetEnvPrefix(EnvPrefix)
	for _, key := range []string{"data_dir", "debug", "archive_dir", "ai_daily_limit"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s_%s: %w", EnvPrefix, strings.ToUpper(key), err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.AIDailyLimit < 0 {
		return nil, fmt.Errorf("ai_daily_limit must be >= 0, got %d", cfg.AIDailyLimit)
	}
	cfg.path = v.ConfigFileUsed()
	return &cfg, nil
}

// Save writes config to Path as YAML.
func (c *Config) Save() error {
	path := c.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
