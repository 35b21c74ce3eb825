package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mcncl/unfold/internal/errors"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config_test_*.yml")
	require.NoError(t, err)

	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg := NewConfig()

	// Test default values
	assert.Equal(t, ThemeDark, cfg.Theme)
	assert.Equal(t, 5, cfg.View.BufferRows)
	assert.Equal(t, 0, cfg.View.ExpandDepth)
	assert.True(t, cfg.View.ShowFormats)
	assert.False(t, cfg.Search.CaseSensitive)
	assert.False(t, cfg.Search.Regex)
	assert.Equal(t, "formatted", cfg.Export.Format)
	assert.Equal(t, "  ", cfg.Export.Indent)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_LoadFromYAML(t *testing.T) {
	yamlContent := `
theme: light
view:
  buffer_rows: 10
  expand_depth: 2
  show_formats: false
  auto_expand:
    - pattern: "^data(\\.items)?$"
search:
  case_sensitive: true
  regex: true
export:
  format: minified
  directory: /tmp/exports
logging:
  level: debug
  file: /tmp/unfold.log
`
	cfg, err := LoadConfig(writeTempConfig(t, yamlContent))
	require.NoError(t, err)

	// Verify values
	assert.Equal(t, ThemeLight, cfg.Theme)
	assert.Equal(t, 10, cfg.View.BufferRows)
	assert.Equal(t, 2, cfg.View.ExpandDepth)
	assert.False(t, cfg.View.ShowFormats)
	assert.True(t, cfg.View.Mouse, "unset values keep their defaults")
	assert.True(t, cfg.Search.CaseSensitive)
	assert.True(t, cfg.Search.Regex)
	assert.Equal(t, "minified", cfg.Export.Format)
	assert.Equal(t, "  ", cfg.Export.Indent)
	assert.Equal(t, "/tmp/exports", cfg.Export.Directory)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/unfold.log", cfg.Logging.File)

	// Check auto-expand rules
	require.Len(t, cfg.View.AutoExpand, 1)
	assert.True(t, cfg.ShouldAutoExpand("data"))
	assert.True(t, cfg.ShouldAutoExpand("data.items"))
	assert.False(t, cfg.ShouldAutoExpand("data.items[0]"))
}

func TestConfig_LoadNonExistentFile(t *testing.T) {
	_, err := LoadConfig("/non/existent/config.yml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no such file or directory")
}

func TestConfig_LoadInvalidYAML(t *testing.T) {
	invalidYAML := `
theme: "dark"
invalid_yaml: [unclosed array
`
	_, err := LoadConfig(writeTempConfig(t, invalidYAML))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_LoadInvalidPattern(t *testing.T) {
	_, err := LoadConfig(writeTempConfig(t, "view:\n  auto_expand:\n    - pattern: \"[oops\"\n"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile patterns")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "unknown theme", mutate: func(c *Config) { c.Theme = "solarized" }, errMsg: "theme must be"},
		{name: "negative buffer", mutate: func(c *Config) { c.View.BufferRows = -1 }, errMsg: "buffer_rows"},
		{name: "negative depth", mutate: func(c *Config) { c.View.ExpandDepth = -3 }, errMsg: "expand_depth"},
		{name: "unknown export format", mutate: func(c *Config) { c.Export.Format = "yaml" }, errMsg: "export.format"},
		{name: "unknown log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, errMsg: "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.ErrorIs(t, err, apperrors.ErrInvalidConfig)
		})
	}
}

func TestConfig_LoadRejectsInvalidValues(t *testing.T) {
	_, err := LoadConfig(writeTempConfig(t, "theme: neon\n"))

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidConfig)
}

func TestConfig_FindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", t.TempDir())

	// Create nested directory
	nestedDir := filepath.Join(tmpDir, "project", "subdir")
	require.NoError(t, os.MkdirAll(nestedDir, 0o755))

	// Create config file in project root
	configPath := filepath.Join(tmpDir, "project", ".unfold.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(`theme: "light"`), 0o644))

	// Change to nested directory
	t.Chdir(nestedDir)

	// Find config file - should find it in parent directory
	foundPath := FindConfigFile()
	require.NotEmpty(t, foundPath, "Should find config file")

	// Verify it's the same file by reading content
	foundContent, err := os.ReadFile(foundPath)
	require.NoError(t, err)
	assert.Contains(t, string(foundContent), `theme: "light"`)
}

func TestConfig_FindConfigFileInHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	userConfig := filepath.Join(home, ".unfold", "config.yml")
	require.NoError(t, os.MkdirAll(filepath.Dir(userConfig), 0o755))
	require.NoError(t, os.WriteFile(userConfig, []byte("theme: dark\n"), 0o644))

	assert.Equal(t, userConfig, FindConfigFile())
}

func TestConfig_FindConfigFileNotFound(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	// Should not find config file
	assert.Empty(t, FindConfigFile())
}

func TestConfig_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	cfg := NewConfig()
	cfg.Theme = ThemeLight
	cfg.View.AutoExpand = []ExpandRule{{Pattern: "^items$"}}
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, loaded.Theme)
	assert.True(t, loaded.ShouldAutoExpand("items"))
}

func TestExpandRule_MatchesPath(t *testing.T) {
	rule := ExpandRule{Pattern: `^users\[\d+\]$`}

	assert.True(t, rule.MatchesPath("users[0]"))
	assert.True(t, rule.MatchesPath("users[12]"))
	assert.False(t, rule.MatchesPath("users"))
	assert.False(t, rule.MatchesPath("users[0].name"))
}

func TestExpandRule_InvalidPattern(t *testing.T) {
	rule := ExpandRule{Pattern: "[invalid regex"}

	// Should not panic and should return false for invalid regex
	assert.False(t, rule.MatchesPath("users"))
}

func TestConfig_ApplyCLI(t *testing.T) {
	cfg := NewConfig()
	theme := ThemeLight
	yes := true
	depth := 3
	logFile := "/tmp/debug.log"

	cfg.ApplyCLI(CLIOverrides{
		Theme:         &theme,
		CaseSensitive: &yes,
		ExpandDepth:   &depth,
		Debug:         &yes,
		LogFile:       &logFile,
	})

	assert.Equal(t, ThemeLight, cfg.Theme)
	assert.True(t, cfg.Search.CaseSensitive)
	assert.False(t, cfg.Search.Regex, "unset flags leave the config alone")
	assert.Equal(t, 3, cfg.View.ExpandDepth)
	assert.True(t, cfg.Dev.Debug)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, logFile, cfg.Logging.File)
}

func TestLoadConfigWithCLI(t *testing.T) {
	path := writeTempConfig(t, "theme: light\nsearch:\n  regex: true\n")
	no := false

	cfg, err := LoadConfigWithCLI(path, CLIOverrides{Regex: &no})
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, cfg.Theme)
	assert.False(t, cfg.Search.Regex, "flag beats file")

	cfg, err = LoadConfigWithCLI("", CLIOverrides{})
	require.NoError(t, err)
	assert.Equal(t, NewConfig().Theme, cfg.Theme)

	bad := "purple"
	_, err = LoadConfigWithCLI("", CLIOverrides{Theme: &bad})
	assert.ErrorIs(t, err, apperrors.ErrInvalidConfig)
}
