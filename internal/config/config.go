// Package config resolves runtime settings from defaults, a config file,
// NANOTASKS_* environment variables and command line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/arthur-debert/nanotasks/formats"
	"github.com/arthur-debert/nanotasks/internal/logging"
	"github.com/arthur-debert/nanotasks/nanotasks/storage"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "NANOTASKS"

// Keys
const (
	KeyStoreBackend = "store.backend"
	KeyStorePath    = "store.path"
	KeyWebAddr      = "web.addr"
	KeyLogLevel     = "log.level"
	KeyLogStderr    = "log.stderr"
	KeyExportFormat = "export.format"
)

// Config holds the resolved settings.
type Config struct {
	Store  StoreConfig  `mapstructure:"store"`
	Web    WebConfig    `mapstructure:"web"`
	Log    LogConfig    `mapstructure:"log"`
	Export ExportConfig `mapstructure:"export"`
}

type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type WebConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Stderr bool   `mapstructure:"stderr"`
}

type ExportConfig struct {
	Format string `mapstructure:"format"`
}

// New returns a viper instance with defaults, config file discovery and
// environment variables set up. The config file is read by Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyStoreBackend, string(storage.BackendJSON))
	v.SetDefault(KeyStorePath, "")
	v.SetDefault(KeyWebAddr, "127.0.0.1:8080")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogStderr, false)
	v.SetDefault(KeyExportFormat, "plaintext")

	// NANOTASKS_CONFIG points at an explicit config file
	if configFile := os.Getenv(EnvPrefix + "_CONFIG"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("nanotasks")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.nanotasks")
		v.AddConfigPath("/etc/nanotasks")
	}

	// store.path -> NANOTASKS_STORE_PATH
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// BindFlags binds each config key to a flag. Flags that were not found are
// skipped so commands can share one binding table.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, bindings map[string]string) error {
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// Load reads the config file, if any, and returns the validated settings.
// A missing file found by discovery is not an error; an explicit
// NANOTASKS_CONFIG that cannot be read is.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	backend, err := storage.ParseBackend(cfg.Store.Backend)
	if err != nil {
		return nil, err
	}
	cfg.Store.Backend = string(backend)
	if cfg.Store.Path == "" && backend != storage.BackendMemory {
		cfg.Store.Path = DefaultStorePath(backend)
	}

	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		return nil, fmt.Errorf("invalid log level %q (use debug, info, warn or error)", cfg.Log.Level)
	}
	if _, err := formats.Get(cfg.Export.Format); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Backend returns the parsed store backend.
func (c *Config) Backend() storage.Backend {
	b, _ := storage.ParseBackend(c.Store.Backend)
	return b
}

// DefaultStorePath returns the per-user data file for backend.
func DefaultStorePath(backend storage.Backend) string {
	name := "tasks.json"
	if backend == storage.BackendSQLite {
		name = "tasks.db"
	}
	return filepath.Join(DataDir(), name)
}

// DataDir returns the XDG data directory for nanotasks.
func DataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "nanotasks")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "nanotasks")
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(homeDir, "Library", "Application Support", "nanotasks")
	}
	return filepath.Join(homeDir, ".local", "share", "nanotasks")
}
