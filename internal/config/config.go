// Package config resolves pigspec settings from defaults, an optional
// config file, PIGSPEC_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to upper-cased keys, e.g. PIGSPEC_WORK_DIR.
const EnvPrefix = "PIGSPEC"

// DefaultFile is read from the search directory when no config file is
// named explicitly.
const DefaultFile = "pigspec.yaml"

// Config keys.
const (
	KeyWorkDir   = "work_dir"
	KeyDirPrefix = "dir_prefix"
	KeyHistoryDB = "history_db"
	KeyLogLevel  = "log_level"
	KeyEnvFile   = "env_file"
	KeyDiff      = "diff"
	KeyFormat    = "format"
)

// Valid values for format and log_level.
var (
	ValidFormats   = []string{"text", "json"}
	ValidLogLevels = []string{"debug", "info", "warn", "error"}
)

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"work-dir":  KeyWorkDir,
	"history":   KeyHistoryDB,
	"log-level": KeyLogLevel,
	"env-file":  KeyEnvFile,
	"diff":      KeyDiff,
	"format":    KeyFormat,
}

// Config is the resolved configuration.
type Config struct {
	// WorkDir is the base directory for pig_test_<n> work directories.
	WorkDir string `mapstructure:"work_dir"`

	// DirPrefix names work directories: <WorkDir>/<DirPrefix><n>.
	DirPrefix string `mapstructure:"dir_prefix"`

	// HistoryDB is the SQLite run history path. Empty disables history.
	HistoryDB string `mapstructure:"history_db"`

	LogLevel string `mapstructure:"log_level"`

	// EnvFile is a .env file whose variables are passed to scripts.
	EnvFile string `mapstructure:"env_file"`

	Diff   bool   `mapstructure:"diff"`
	Format string `mapstructure:"format"`
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// File is an explicit config file. It must exist.
	File string

	// SearchDir is where DefaultFile is looked up when File is empty.
	// Defaults to the current directory.
	SearchDir string

	// Flags are bound by name; only flags the user set override other sources.
	Flags *pflag.FlagSet
}

// Load resolves the configuration.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyWorkDir, ".")
	v.SetDefault(KeyDirPrefix, "pig_test_")
	v.SetDefault(KeyHistoryDB, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyEnvFile, "")
	v.SetDefault(KeyDiff, false)
	v.SetDefault(KeyFormat, "text")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	path := opts.File
	if path == "" {
		dir := opts.SearchDir
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, DefaultFile)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if !slices.Contains(ValidFormats, c.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", c.Format, ValidFormats)
	}
	if !slices.Contains(ValidLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level %q: must be one of %v", c.LogLevel, ValidLogLevels)
	}
	if c.DirPrefix == "" {
		return fmt.Errorf("dir_prefix must not be empty")
	}
	return nil
}

// SubprocessEnv reads EnvFile and returns its variables as sorted KEY=value
// entries. The parent process environment is not modified.
func (c *Config) SubprocessEnv() ([]string, error) {
	if c.EnvFile == "" {
		return nil, nil
	}
	vars, err := godotenv.Read(c.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", c.EnvFile, err)
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+vars[k])
	}
	return env, nil
}
