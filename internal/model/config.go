package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// MinRequestIntervalSec is the smallest allowed pause between requests
// to the forum. Configuration can raise it but never lower it.
const MinRequestIntervalSec = 5

// ForumConfig holds settings for talking to the forum.
type ForumConfig struct {
	// BaseURL is the root URL of the forum.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// UserAgent is prepended to the tool's own version token.
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`

	// RequestIntervalSec is the minimum number of seconds between requests.
	RequestIntervalSec int `mapstructure:"request_interval_sec" yaml:"request_interval_sec"`

	// MaxPages caps how many listing pages are scanned per folder.
	// Zero scans until an empty page.
	MaxPages int `mapstructure:"max_pages" yaml:"max_pages"`

	// Folders restricts which folders are scanned. Empty means all.
	Folders []string `mapstructure:"folders" yaml:"folders"`

	// Timezone is the IANA zone used to interpret message dates.
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// KeyringConfig controls whether session tokens are remembered.
type KeyringConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	FileDir string `mapstructure:"file_dir" yaml:"file_dir"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Database string        `mapstructure:"database" yaml:"database"`
	LogLevel string        `mapstructure:"log_level" yaml:"log_level"`
	Forum    ForumConfig   `mapstructure:"forum" yaml:"forum"`
	Keyring  KeyringConfig `mapstructure:"keyring" yaml:"keyring"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/fapm/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "fapm", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Database: "messages.db",
		LogLevel: "info",
		Forum: ForumConfig{
			BaseURL:            "https://www.furaffinity.net",
			RequestIntervalSec: MinRequestIntervalSec,
		},
		Keyring: KeyringConfig{
			FileDir: "~/.config/fapm/credentials",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Values may be overridden with FAPM_ prefixed environment variables.
// If the file does not exist, the defaults are used.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("fapm")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values.
	def := defaultAppConfig()
	v.SetDefault("database", def.Database)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("forum.base_url", def.Forum.BaseURL)
	v.SetDefault("forum.user_agent", "")
	v.SetDefault("forum.request_interval_sec", def.Forum.RequestIntervalSec)
	v.SetDefault("forum.max_pages", 0)
	v.SetDefault("forum.folders", []string{})
	v.SetDefault("forum.timezone", "")
	v.SetDefault("keyring.enabled", false)
	v.SetDefault("keyring.file_dir", def.Keyring.FileDir)

	if err := v.ReadInConfig(); err != nil {
		_, missing := err.(viper.ConfigFileNotFoundError)
		_, noFile := err.(*os.PathError)
		if !missing && !noFile {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Forum.RequestIntervalSec < MinRequestIntervalSec {
		cfg.Forum.RequestIntervalSec = MinRequestIntervalSec
	}
	if cfg.Forum.MaxPages < 0 {
		cfg.Forum.MaxPages = 0
	}
	cfg.Forum.BaseURL = strings.TrimRight(cfg.Forum.BaseURL, "/")

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database", cfg.Database)
	v.Set("log_level", cfg.LogLevel)
	v.Set("forum.base_url", cfg.Forum.BaseURL)
	v.Set("forum.user_agent", cfg.Forum.UserAgent)
	v.Set("forum.request_interval_sec", cfg.Forum.RequestIntervalSec)
	v.Set("forum.max_pages", cfg.Forum.MaxPages)
	v.Set("forum.folders", cfg.Forum.Folders)
	v.Set("forum.timezone", cfg.Forum.Timezone)
	v.Set("keyring.enabled", cfg.Keyring.Enabled)
	v.Set("keyring.file_dir", cfg.Keyring.FileDir)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// RequestInterval returns the configured pause between requests.
func (c ForumConfig) RequestInterval() time.Duration {
	sec := c.RequestIntervalSec
	if sec < MinRequestIntervalSec {
		sec = MinRequestIntervalSec
	}
	return time.Duration(sec) * time.Second
}

// Location resolves Timezone, defaulting to the local zone.
func (c ForumConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SelectedFolders parses Folders, defaulting to every folder.
func (c ForumConfig) SelectedFolders() ([]Folder, error) {
	return ParseFolders(c.Folders)
}

// ParseFolders parses and deduplicates folder names. An empty input
// selects every folder.
func ParseFolders(names []string) ([]Folder, error) {
	if len(names) == 0 {
		out := make([]Folder, len(AllFolders))
		copy(out, AllFolders)
		return out, nil
	}

	seen := make(map[Folder]bool, len(names))
	var folders []Folder
	for _, name := range names {
		f, _, err := ParseFolder(name)
		if err != nil {
			return nil, err
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		folders = append(folders, f)
	}
	return folders, nil
}
