// ABOUTME: Frame configuration management with backend selection.
// ABOUTME: Reads config.json through viper with FRAME_* env overrides and opens the configured backend.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/harperreed/frame/internal/charm"
	"github.com/harperreed/frame/internal/logging"
	"github.com/harperreed/frame/internal/storage"
)

// Backends lists the accepted values of the backend setting.
var Backends = []string{"sqlite", "badger", "charm", "redis", "yaml", "memory"}

// ErrUnknownKey is returned by Set for a key that is not a config setting.
var ErrUnknownKey = errors.New("unknown config key")

// Config stores frame tool configuration.
type Config struct {
	// Backend selects the storage backend. Defaults to "sqlite".
	Backend string `json:"backend,omitempty" mapstructure:"backend"`

	// DataDir is the root directory for local backends.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/frame.
	DataDir string `json:"data_dir,omitempty" mapstructure:"data_dir"`

	LogLevel  string `json:"log_level,omitempty" mapstructure:"log_level"`
	LogFormat string `json:"log_format,omitempty" mapstructure:"log_format"`

	RedisAddr     string `json:"redis_addr,omitempty" mapstructure:"redis_addr"`
	RedisPassword string `json:"redis_password,omitempty" mapstructure:"redis_password"`
	RedisDB       int    `json:"redis_db,omitempty" mapstructure:"redis_db"`
	RedisPrefix   string `json:"redis_prefix,omitempty" mapstructure:"redis_prefix"`

	// CharmDB names the Charm KV database used by the charm backend.
	CharmDB string `json:"charm_db,omitempty" mapstructure:"charm_db"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return "sqlite"
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogLevel returns the configured log level, defaulting to warn.
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return logging.DefaultLevel
	}
	return c.LogLevel
}

// GetRedisAddr returns the redis address, defaulting to localhost.
func (c *Config) GetRedisAddr() string {
	if c.RedisAddr == "" {
		return "localhost:6379"
	}
	return c.RedisAddr
}

// GetCharmDB returns the Charm KV database name.
func (c *Config) GetCharmDB() string {
	if c.CharmDB == "" {
		return charm.DefaultDBName
	}
	return c.CharmDB
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

// OpenStorage creates the Backend implementation named by the configured backend.
func (c *Config) OpenStorage() (storage.Backend, error) {
	dataDir := c.GetDataDir()

	switch backend := c.GetBackend(); backend {
	case "sqlite":
		return storage.Open(storage.DBPath(dataDir))
	case "badger":
		return storage.OpenBadger(storage.BadgerDir(dataDir))
	case "charm":
		return storage.OpenCharm(c.GetCharmDB())
	case "redis":
		return storage.OpenRedis(storage.RedisOptions{
			Addr:     c.GetRedisAddr(),
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Prefix:   c.RedisPrefix,
		})
	case "yaml":
		return storage.OpenYAML(storage.YAMLPath(dataDir))
	case "memory":
		return storage.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// Logger builds the stderr logger for the configured level and format.
func (c *Config) Logger() *log.Logger {
	return logging.Stderr(c.GetLogLevel(), c.LogFormat)
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "frame", "config.json")
}

func setDefaults(v *viper.Viper) {
	// Every key needs a default so AutomaticEnv can override it during Unmarshal.
	v.SetDefault("backend", "")
	v.SetDefault("data_dir", "")
	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_prefix", "")
	v.SetDefault("charm_db", "")
}

// Load reads config from disk. FRAME_<KEY> environment variables override file values.
func Load() (*Config, error) {
	return LoadFile(GetConfigPath())
}

// LoadFile reads the config at path. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FRAME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	return c.SaveFile(GetConfigPath())
}

// SaveFile writes config to path with owner-only permissions.
func (c *Config) SaveFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Keys lists the settings accepted by Set.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var setters = map[string]func(c *Config, value string) error{
	"backend": func(c *Config, value string) error {
		value = strings.ToLower(value)
		for _, b := range Backends {
			if b == value {
				c.Backend = value
				return nil
			}
		}
		return fmt.Errorf("backend must be one of %s", strings.Join(Backends, ", "))
	},
	"data_dir": func(c *Config, value string) error {
		c.DataDir = value
		return nil
	},
	"log_level": func(c *Config, value string) error {
		if _, err := log.ParseLevel(strings.ToLower(value)); err != nil {
			return fmt.Errorf("invalid log level %q", value)
		}
		c.LogLevel = strings.ToLower(value)
		return nil
	},
	"log_format": func(c *Config, value string) error {
		value = strings.ToLower(value)
		if value != "" && value != "text" && value != "json" {
			return fmt.Errorf("log format must be text or json")
		}
		c.LogFormat = value
		return nil
	},
	"redis_addr": func(c *Config, value string) error {
		c.RedisAddr = value
		return nil
	},
	"redis_password": func(c *Config, value string) error {
		c.RedisPassword = value
		return nil
	},
	"redis_db": func(c *Config, value string) error {
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("redis_db must be a non-negative integer")
		}
		c.RedisDB = n
		return nil
	},
	"redis_prefix": func(c *Config, value string) error {
		c.RedisPrefix = value
		return nil
	},
	"charm_db": func(c *Config, value string) error {
		c.CharmDB = value
		return nil
	},
}

// Set assigns one setting by its config.json key.
func (c *Config) Set(key, value string) error {
	set, ok := setters[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("%w: %s (valid: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
	return set(c, strings.TrimSpace(value))
}
