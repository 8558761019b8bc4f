// Package config handles the XDG configuration directory, the optional
// config.toml file and environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the configuration filename inside Dir.
	ConfigFile = "config.toml"

	// DefaultAPIURL is the collection endpoint of the task service.
	DefaultAPIURL = "http://localhost:5000/api/tasks"

	// DefaultTimeout bounds each remote call.
	DefaultTimeout = 5 * time.Second

	// DefaultAddr is where `todo serve` listens.
	DefaultAddr = "localhost:5000"

	// DefaultDBFile is the SQLite filename used by `todo serve`.
	DefaultDBFile = "tasks.db"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `toml:"-"`

	// Debug enables debug logging.
	Debug bool `toml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `toml:"-"`

	API    APIConfig    `toml:"api"`
	Server ServerConfig `toml:"server"`
	UI     UIConfig     `toml:"ui"`
}

// APIConfig configures the remote task service client.
type APIConfig struct {
	URL   string `toml:"url"`
	Token string `toml:"token"`
	// Timeout bounds each request; 0 disables it.
	Timeout time.Duration `toml:"timeout"`
}

// ServerConfig configures the reference backend.
type ServerConfig struct {
	Addr   string `toml:"addr"`
	DBPath string `toml:"db_path"`
}

// UIConfig configures rendering.
type UIConfig struct {
	Color bool `toml:"color"`
}

// New creates a Config for the default or specified config directory, loading
// config.toml from it when present and applying environment overrides.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := Default(dir)

	if err := cfg.loadFile(cfg.ConfigPath()); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	cfg.Server.DBPath = expandPath(cfg.Server.DBPath)
	return cfg, nil
}

// Default returns the built-in settings for dir.
func Default(dir string) *Config {
	return &Config{
		Dir: dir,
		API: APIConfig{
			URL:     DefaultAPIURL,
			Timeout: DefaultTimeout,
		},
		Server: ServerConfig{
			Addr:   DefaultAddr,
			DBPath: filepath.Join(dir, DefaultDBFile),
		},
		UI: UIConfig{Color: true},
	}
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to config.toml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasConfigFile checks if config.toml exists.
func (c *Config) HasConfigFile() bool {
	_, err := os.Stat(c.ConfigPath())
	return err == nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if _, err := toml.Decode(string(data), c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	if v := os.Getenv("TODO_API_URL"); v != "" {
		c.API.URL = v
	}
	if v := os.Getenv("TODO_API_TOKEN"); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv("TODO_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TODO_API_TIMEOUT: %s", v)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv("TODO_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("TODO_DB_PATH"); v != "" {
		c.Server.DBPath = v
	}
	return nil
}

// expandPath expands ~ to the home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
