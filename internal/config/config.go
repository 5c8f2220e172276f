// Package config resolves engine and CLI settings from defaults, a YAML file
// and AINATIVE_* environment variables, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "AINATIVE"

// DefaultFile is read when Load is given no path and it exists in the working directory.
const DefaultFile = ".ainativeignore.yaml"

// Version is reported by the CLI.
const Version = "1.0.0"

// Config holds all application configuration settings
type Config struct {
	// Engine settings
	RootDir           string `yaml:"root" envconfig:"ROOT"`
	Mode              string `yaml:"mode" envconfig:"MODE"`
	SecurityDetection bool   `yaml:"security_detection" envconfig:"SECURITY_DETECTION"`
	AuditLog          bool   `yaml:"audit_log" envconfig:"AUDIT_LOG"`
	MaxFileSize       int64  `yaml:"max_file_size" envconfig:"MAX_FILE_SIZE"`
	GitignoreFallback bool   `yaml:"gitignore_fallback" envconfig:"GITIGNORE_FALLBACK"`
	GlobalIgnoreFile  string `yaml:"global_ignore_file" envconfig:"GLOBAL_IGNORE_FILE"`
	Watch             bool   `yaml:"watch" envconfig:"WATCH"`

	// Logging settings
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	NoColor  bool   `yaml:"no_color" envconfig:"NO_COLOR"`

	// Path is the file the settings were read from, if any.
	Path string `yaml:"-" ignored:"true"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		RootDir:           ".",
		Mode:              "dev",
		SecurityDetection: true,
		AuditLog:          true,
		GitignoreFallback: true,
		GlobalIgnoreFile:  "~/.config/ainative/ignore",
		LogLevel:          "INFO",
	}
}

// Load reads the YAML file at path (or DefaultFile when path is empty and the
// file exists), then applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse config file %s: %w", path, err)
		}
		cfg.Path = path
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to process env vars: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be fixed up later.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Mode) {
	case "", "dev", "prod", "test", "all":
		c.Mode = strings.ToLower(c.Mode)
	default:
		return fmt.Errorf("config: invalid mode %q (want dev, prod, test or all)", c.Mode)
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("config: max_file_size must not be negative, got %d", c.MaxFileSize)
	}
	if c.RootDir == "" {
		c.RootDir = "."
	}
	return nil
}

// UseColors reports whether colored output should be written to stderr.
func (c *Config) UseColors() bool {
	return !c.NoColor && isatty.IsTerminal(os.Stderr.Fd())
}
