package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sadopc/pmdesk/internal/store"
)

// EnvPrefix namespaces environment overrides, e.g. PMDESK_DATA_DIR.
const EnvPrefix = "PMDESK"

// Config holds all runtime settings.
type Config struct {
	DataDir   string `mapstructure:"data_dir"`
	Backend   string `mapstructure:"backend"`
	LogLevel  string `mapstructure:"log_level"`
	LogFile   string `mapstructure:"log_file"` // defaults to <data_dir>/pmdesk.log
	ExportDir string `mapstructure:"export_dir"`
}

// Options select where Load looks besides the environment.
type Options struct {
	// File is an explicit config file; when empty config.yaml is searched
	// for in the working directory and the user config directory.
	File string
	// Flags, when set, override every other source for the keys they
	// name (data-dir, backend, log-level).
	Flags *pflag.FlagSet
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"data-dir":  "data_dir",
	"backend":   "backend",
	"log-level": "log_level",
}

// Load reads .env, defaults, the config file, PMDESK_* variables and flags,
// in increasing order of precedence.
func Load(opts Options) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	if err := setDefaults(v); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.File, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "pmdesk"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) error {
	dataDir, err := store.DefaultDataDir()
	if err != nil {
		return fmt.Errorf("locate config directory: %w", err)
	}
	exportDir, err := os.UserHomeDir()
	if err != nil {
		exportDir = "."
	}

	v.SetDefault("data_dir", dataDir)
	v.SetDefault("backend", store.BackendCSV)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("export_dir", exportDir)
	return nil
}

func (c *Config) normalize() {
	c.DataDir = strings.TrimSpace(c.DataDir)
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogFile == "" && c.DataDir != "" {
		c.LogFile = filepath.Join(c.DataDir, "pmdesk.log")
	}
}

// Validate checks the settings the rest of the program relies on.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	switch c.Backend {
	case store.BackendCSV, store.BackendSQLite:
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", store.BackendCSV, store.BackendSQLite, c.Backend)
	}
	return nil
}

// loadEnvFile loads .env from the working directory if there is one.
func loadEnvFile() {
	_ = godotenv.Load()
}
