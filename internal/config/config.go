package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/unfold/internal/errors"
)

// Themes understood by the viewer
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config represents the complete configuration for unfold
type Config struct {
	Theme   string        `yaml:"theme"`
	View    ViewConfig    `yaml:"view"`
	Search  SearchConfig  `yaml:"search"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
	Dev     DevConfig     `yaml:"dev"`
}

// ViewConfig controls the tree view
type ViewConfig struct {
	// BufferRows is the number of off-screen rows rendered above and below
	// the viewport
	BufferRows int `yaml:"buffer_rows"`
	// ExpandDepth expands containers up to this depth when a file is opened
	ExpandDepth int          `yaml:"expand_depth"`
	AutoExpand  []ExpandRule `yaml:"auto_expand"`
	ShowFormats bool         `yaml:"show_formats"`
	Mouse       bool         `yaml:"mouse"`
}

// ExpandRule expands every container whose path matches Pattern on load
type ExpandRule struct {
	Pattern string `yaml:"pattern"`

	// compiled regex (not serialized)
	regex *regexp.Regexp
}

// SearchConfig holds the initial search toggles
type SearchConfig struct {
	CaseSensitive bool `yaml:"case_sensitive"`
	Regex         bool `yaml:"regex"`
}

// ExportConfig controls copy and export output
type ExportConfig struct {
	Format    string `yaml:"format"` // spaced, minified or formatted
	Indent    string `yaml:"indent"`
	Directory string `yaml:"directory"`
}

// LoggingConfig controls the debug log
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Theme: ThemeDark,
		View: ViewConfig{
			BufferRows:  5,
			ExpandDepth: 0,
			AutoExpand:  []ExpandRule{},
			ShowFormats: true,
			Mouse:       true,
		},
		Search: SearchConfig{
			CaseSensitive: false,
			Regex:         false,
		},
		Export: ExportConfig{
			Format: "formatted",
			Indent: "  ",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("failed to read config file", err)
	}

	// Start with defaults
	cfg := NewConfig()

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("failed to parse config file", err)
	}

	// Compile regex patterns
	if err := cfg.compilePatterns(); err != nil {
		return nil, errors.NewConfigError("failed to compile patterns", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

var configNames = []string{".unfold.yml", ".unfold.yaml", "unfold.yml", "unfold.yaml"}

// FindConfigFile searches for a config file in current directory and parents,
// then falls back to ~/.unfold/config.yml
func FindConfigFile() string {
	// Start from current directory
	currentDir, err := os.Getwd()
	if err == nil {
		// Search up the directory tree
		for {
			for _, name := range configNames {
				configPath := filepath.Join(currentDir, name)
				if _, err := os.Stat(configPath); err == nil {
					return configPath
				}
			}

			// Move up one directory
			parentDir := filepath.Dir(currentDir)
			if parentDir == currentDir {
				// Reached root directory
				break
			}
			currentDir = parentDir
		}
	}

	if path := UserConfigPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// UserConfigPath returns ~/.unfold/config.yml, or "" if there is no home
// directory
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".unfold", "config.yml")
}

// Save writes the config as YAML, creating the parent directory if needed
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewConfigError("failed to create config directory", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.NewConfigError("failed to serialize config", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewConfigError("failed to write config", err)
	}
	return nil
}

// Validate checks values that cannot be fixed up silently
func (c *Config) Validate() error {
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		return invalid("theme must be %q or %q, got %q", ThemeDark, ThemeLight, c.Theme)
	}
	if c.View.BufferRows < 0 {
		return invalid("view.buffer_rows must not be negative, got %d", c.View.BufferRows)
	}
	if c.View.ExpandDepth < 0 {
		return invalid("view.expand_depth must not be negative, got %d", c.View.ExpandDepth)
	}
	switch c.Export.Format {
	case "spaced", "minified", "formatted":
	default:
		return invalid("export.format must be spaced, minified or formatted, got %q", c.Export.Format)
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return invalid("logging.level: %v", err)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.NewConfigError(fmt.Sprintf(format, args...), errors.ErrInvalidConfig)
}

// compilePatterns compiles all regex patterns in the config
func (c *Config) compilePatterns() error {
	for i := range c.View.AutoExpand {
		rule := &c.View.AutoExpand[i]
		regex, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return fmt.Errorf("invalid auto_expand pattern '%s': %w", rule.Pattern, err)
		}
		rule.regex = regex
	}
	return nil
}

// MatchesPath checks if this rule matches the given accessor path
func (r *ExpandRule) MatchesPath(path string) bool {
	if r.regex == nil {
		// Try to compile if not already compiled (fallback)
		regex, err := regexp.Compile(r.Pattern)
		if err != nil {
			return false
		}
		r.regex = regex
	}
	return r.regex.MatchString(path)
}

// ShouldAutoExpand reports whether a container at path should be expanded
// when the document is opened
func (c *Config) ShouldAutoExpand(path string) bool {
	for i := range c.View.AutoExpand {
		if c.View.AutoExpand[i].MatchesPath(path) {
			return true
		}
	}
	return false
}

// CLIOverrides carries flags given on the command line. Nil fields were
// not set and leave the config untouched.
type CLIOverrides struct {
	Theme         *string
	CaseSensitive *bool
	Regex         *bool
	ExpandDepth   *int
	Debug         *bool
	LogFile       *string
}

// ApplyCLI applies explicitly set command line flags on top of the config
func (c *Config) ApplyCLI(o CLIOverrides) {
	if o.Theme != nil {
		c.Theme = *o.Theme
	}
	if o.CaseSensitive != nil {
		c.Search.CaseSensitive = *o.CaseSensitive
	}
	if o.Regex != nil {
		c.Search.Regex = *o.Regex
	}
	if o.ExpandDepth != nil {
		c.View.ExpandDepth = *o.ExpandDepth
	}
	if o.Debug != nil {
		c.Dev.Debug = *o.Debug
		if *o.Debug {
			c.Logging.Level = "debug"
		}
	}
	if o.LogFile != nil {
		c.Logging.File = *o.LogFile
	}
}

// LoadConfigWithCLI loads config with CLI argument precedence. An empty
// configPath means defaults.
func LoadConfigWithCLI(configPath string, o CLIOverrides) (*Config, error) {
	// Start with defaults
	cfg := NewConfig()

	// Load config file if provided
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	cfg.ApplyCLI(o)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
