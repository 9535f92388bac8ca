// Package config loads reviewlens settings from a YAML file, the
// environment and an optional .env file.
//
// Precedence, highest first: command-line flags (applied by the caller),
// REVIEWLENS_* environment variables, the config file, built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// REVIEWLENS_DATABASE_DRIVER.
const EnvPrefix = "REVIEWLENS"

// Config holds every tunable setting.
type Config struct {
	LogLevel string         `mapstructure:"log_level"`
	Database DatabaseConfig `mapstructure:"database"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Import   ImportConfig   `mapstructure:"import"`
}

// DatabaseConfig selects the review store. An empty DSN means the default
// SQLite file.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// AnalysisConfig holds anomaly detection settings.
type AnalysisConfig struct {
	Threshold float64 `mapstructure:"threshold"`
	Top       int     `mapstructure:"top"`
}

// ImportConfig describes the CSV source format.
type ImportConfig struct {
	Encoding  string `mapstructure:"encoding"`
	Delimiter string `mapstructure:"delimiter"`
}

// Dir returns the reviewlens config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/reviewlens.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "reviewlens"), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel: "warn",
		Database: DatabaseConfig{Driver: "sqlite"},
		Analysis: AnalysisConfig{Threshold: 1.5, Top: 10},
		Import:   ImportConfig{Encoding: "utf-8", Delimiter: ","},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("analysis.threshold", d.Analysis.Threshold)
	v.SetDefault("analysis.top", d.Analysis.Top)
	v.SetDefault("import.encoding", d.Import.Encoding)
	v.SetDefault("import.delimiter", d.Import.Delimiter)
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration. When path is empty, config.yaml in Dir() is
// used if it exists; an explicit path must exist. The result is not
// validated so that callers can apply flag overrides first.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks settings that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.Driver == "postgres" && c.Database.DSN == "" {
		return errors.New("database.dsn is required for the postgres driver")
	}
	if err := CheckThreshold(c.Analysis.Threshold); err != nil {
		return fmt.Errorf("analysis.threshold: %w", err)
	}
	if c.Analysis.Top < 0 {
		return fmt.Errorf("analysis.top must not be negative, got %d", c.Analysis.Top)
	}
	if len([]rune(c.Import.Delimiter)) != 1 {
		return fmt.Errorf("import.delimiter must be a single character, got %q", c.Import.Delimiter)
	}
	return nil
}

// CheckThreshold rejects anomaly thresholds that are not finite and positive.
func CheckThreshold(t float64) error {
	if math.IsNaN(t) || math.IsInf(t, 0) || t <= 0 {
		return fmt.Errorf("invalid threshold %v (must be a positive number)", t)
	}
	return nil
}

// DelimiterRune returns the CSV delimiter as a rune.
func (c *Config) DelimiterRune() rune {
	return []rune(c.Import.Delimiter)[0]
}
