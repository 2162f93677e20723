// Package config handles ormf configuration: defaults, an optional YAML
// file, named profiles, ORMF_* environment variables and command-line flags
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sonemaro/ormf/internal/format"
	"github.com/sonemaro/ormf/internal/openrouter"
	"github.com/sonemaro/ormf/internal/pipeline"
)

// EnvPrefix prefixes every environment override, e.g. ORMF_FILTER_SORT_KEY
const EnvPrefix = "ORMF"

// Config represents the complete application configuration
type Config struct {
	// Version for config migration
	Version int `yaml:"version" mapstructure:"version"`

	// Runtime only, not saved
	ActiveProfile string `yaml:"-" mapstructure:"-"`

	// Listing endpoint settings
	Provider ProviderConfig `yaml:"provider" mapstructure:"provider"`

	// Filter pipeline settings
	Filter FilterConfig `yaml:"filter" mapstructure:"filter"`

	// Logging settings
	Log LogConfig `yaml:"log" mapstructure:"log"`

	// UI settings
	UI UIConfig `yaml:"ui" mapstructure:"ui"`
}

// ProviderConfig holds the listing endpoint settings
type ProviderConfig struct {
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint"`   // must start with https://
	ModelURL string        `yaml:"model_url" mapstructure:"model_url"` // path below the endpoint
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`     // 0 disables
}

// FilterConfig holds the filter pipeline parameters
type FilterConfig struct {
	N             int    `yaml:"n" mapstructure:"n"`
	ReturnFormat  string `yaml:"return_format" mapstructure:"return_format"`
	KeepRegexes   string `yaml:"keep_regexes" mapstructure:"keep_regexes"`
	RemoveRegexes string `yaml:"remove_regexes" mapstructure:"remove_regexes"`
	SortKey       string `yaml:"sort_key" mapstructure:"sort_key"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// UIConfig holds terminal output settings
type UIConfig struct {
	ColorEnabled bool `yaml:"color_enabled" mapstructure:"color_enabled"`
}

// DefaultConfig returns a freshly built default configuration
func DefaultConfig() *Config {
	opts := pipeline.DefaultOptions()
	return &Config{
		Version: 1,

		Provider: ProviderConfig{
			Endpoint: opts.Endpoint,
			ModelURL: opts.ModelPath,
			Timeout:  openrouter.DefaultTimeout,
		},

		Filter: FilterConfig{
			N:             opts.Limit,
			ReturnFormat:  string(opts.Format),
			KeepRegexes:   opts.KeepPatterns,
			RemoveRegexes: opts.RemovePatterns,
			SortKey:       opts.SortKey,
		},

		Log: LogConfig{
			Level: "warn",
		},

		UI: UIConfig{
			ColorEnabled: true,
		},
	}
}

// FlagKeys maps command-line flag names to configuration keys
var FlagKeys = map[string]string{
	"n":                   "filter.n",
	"return-format":       "filter.return_format",
	"keep-regexes":        "filter.keep_regexes",
	"remove-regexes":      "filter.remove_regexes",
	"sort-key":            "filter.sort_key",
	"openrouter-endpoint": "provider.endpoint",
	"model-url":           "provider.model_url",
	"timeout":             "provider.timeout",
	"log-level":           "log.level",
}

// ConfigPaths holds the config file locations
type ConfigPaths struct {
	User       string // ~/.config/ormf/config.yaml
	ProfileDir string // ~/.config/ormf/profiles/
}

// GetConfigPaths returns the configuration file paths
func GetConfigPaths() ConfigPaths {
	homeDir, _ := os.UserHomeDir()
	configDir := filepath.Join(homeDir, ".config", "ormf")
	return ConfigPaths{
		User:       filepath.Join(configDir, "config.yaml"),
		ProfileDir: filepath.Join(configDir, "profiles"),
	}
}

// DefaultPath returns the user config file location
func DefaultPath() string {
	return GetConfigPaths().User
}

// LoadOptions selects the sources Load reads
type LoadOptions struct {
	Path         string         // config file; empty means DefaultPath, which may be absent
	AllowMissing bool           // treat a missing Path like a missing default file
	Profile      string         // profile merged over the file; empty falls back to ORMF_PROFILE
	Flags        *pflag.FlagSet // changed flags override everything; may be nil
}

// Load resolves the configuration. Precedence, lowest to highest: defaults,
// the YAML file, the profile, ORMF_* environment variables, changed flags.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yaml")

	path := opts.Path
	explicit := path != "" && !opts.AllowMissing
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if explicit || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	profile := opts.Profile
	if profile == "" {
		profile = os.Getenv(EnvPrefix + "_PROFILE")
	}
	if profile != "" {
		if err := mergeProfile(v, profile); err != nil {
			return nil, err
		}
	}

	if opts.Flags != nil {
		for name, key := range FlagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.ActiveProfile = profile
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("provider.endpoint", d.Provider.Endpoint)
	v.SetDefault("provider.model_url", d.Provider.ModelURL)
	v.SetDefault("provider.timeout", d.Provider.Timeout)
	v.SetDefault("filter.n", d.Filter.N)
	v.SetDefault("filter.return_format", d.Filter.ReturnFormat)
	v.SetDefault("filter.keep_regexes", d.Filter.KeepRegexes)
	v.SetDefault("filter.remove_regexes", d.Filter.RemoveRegexes)
	v.SetDefault("filter.sort_key", d.Filter.SortKey)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("ui.color_enabled", d.UI.ColorEnabled)
}

// Options converts the filter and provider settings into pipeline options
func (c *Config) Options() pipeline.Options {
	return pipeline.Options{
		Limit:          c.Filter.N,
		Format:         format.Format(c.Filter.ReturnFormat),
		KeepPatterns:   c.Filter.KeepRegexes,
		RemovePatterns: c.Filter.RemoveRegexes,
		SortKey:        c.Filter.SortKey,
		Endpoint:       c.Provider.Endpoint,
		ModelPath:      c.Provider.ModelURL,
	}
}

// YAML renders the configuration as a YAML document
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save writes c to path, creating parent directories. An existing file is
// only replaced when overwrite is set.
func Save(c *Config, path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.YAML()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
