// =============================================================================
// Receipt PDF - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration. All
// settings have defaults, so the tool runs without any configuration file.
//
// SOURCES (highest precedence first):
//   1. Command-line flags (bound by the cmd package)
//   2. Environment variables: RECEIPT_<KEY>, dots become underscores
//      (e.g. RECEIPT_OUTPUT_DIR, RECEIPT_BROWSER_BIN)
//   3. The YAML config file (--config, or ./receipt.yaml when present)
//   4. Built-in defaults
//
// EXAMPLE receipt.yaml:
//   input: data/input.csv
//   template: templates/template.html
//   output_dir: output
//   open: false
//   log_level: info
//   browser:
//     bin: /usr/bin/chromium
//     timeout: 90s
//     no_sandbox: true
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read.
const EnvPrefix = "RECEIPT"

// Default values.
const (
	DefaultInput         = "data/input.csv"
	DefaultTemplate      = "templates/template.html"
	DefaultOutputDir     = "output"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultBrowserTimeout = 60 * time.Second
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the settings for one run.
type Config struct {
	// Input is the CSV (or .xlsx) file with the purchased items.
	Input string `mapstructure:"input" yaml:"input"`

	// Template is the HTML template of the receipt.
	Template string `mapstructure:"template" yaml:"template"`

	// OutputDir is where the PDF is written. It is created when missing.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// Open shows the PDF in the default viewer after it is written.
	Open bool `mapstructure:"open" yaml:"open"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// Browser configures the headless browser used for PDF rendering.
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
}

// BrowserConfig holds the PDF backend settings.
type BrowserConfig struct {
	// Bin is the Chrome/Chromium executable. Empty searches the system.
	Bin string `mapstructure:"bin" yaml:"bin"`

	// Timeout bounds browser launch plus rendering.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// NoSandbox disables the Chrome sandbox (needed as root in containers).
	NoSandbox bool `mapstructure:"no_sandbox" yaml:"no_sandbox"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// SetDefaults registers every key with its default on v. Keys must be
// registered for environment variables to be picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input", DefaultInput)
	v.SetDefault("template", DefaultTemplate)
	v.SetDefault("output_dir", DefaultOutputDir)
	v.SetDefault("open", false)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
	v.SetDefault("browser.bin", "")
	v.SetDefault("browser.timeout", DefaultBrowserTimeout)
	v.SetDefault("browser.no_sandbox", false)
}

// Load reads the configuration into a Config.
//
// PARAMETERS:
//   - v: The viper instance; flags may already be bound to it.
//   - cfgFile: An explicit config file. When empty, ./receipt.yaml is read
//     if it exists.
//
// RETURNS:
//   - The validated configuration.
//   - An error if the file cannot be read or a value is invalid.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, cfgFile); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// readConfigFile loads cfgFile, or the optional receipt.yaml in the working
// directory.
func readConfigFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
		return nil
	}

	v.SetConfigName("receipt")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// applyDefaults fills values that were explicitly set to empty.
func applyDefaults(cfg *Config) {
	if cfg.Input == "" {
		cfg.Input = DefaultInput
	}
	if cfg.Template == "" {
		cfg.Template = DefaultTemplate
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.Browser.Timeout == 0 {
		cfg.Browser.Timeout = DefaultBrowserTimeout
	}
}

// validate checks values that have no sensible fallback.
func validate(cfg *Config) error {
	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", cfg.LogFormat)
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", cfg.LogLevel)
	}

	if cfg.Browser.Timeout < 0 {
		return fmt.Errorf("browser.timeout must not be negative, got %s", cfg.Browser.Timeout)
	}

	return nil
}
