package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "quorum.percent",
		Value:   0,
		Message: "must be at least 1",
	}

	assert.Equal(t, "quorum.percent: must be at least 1 (got: 0)", err.Error())
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		assert.Empty(t, errs.Error())
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "strategy", Value: "x", Message: "is invalid"},
		}
		assert.Equal(t, "strategy: is invalid (got: x)", errs.Error())
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "field1", Value: "bad", Message: "is invalid"},
			{Field: "field2", Value: -1, Message: "must be positive"},
		}
		result := errs.Error()
		assert.True(t, strings.HasPrefix(result, "2 validation errors"))
		assert.Contains(t, result, "field1")
		assert.Contains(t, result, "field2")
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		field   string
		message string
	}{
		{"unknown_strategy", func(c *Config) { c.Strategy = "fuzzy" }, "strategy", "must be one of: single, quorum, multi, per-pattern, any"},
		{"empty_strategy", func(c *Config) { c.Strategy = "" }, "strategy", "is required"},
		{"empty_input", func(c *Config) { c.Files.Input = "" }, "files.input", "is required"},
		{"output_is_input", func(c *Config) { c.Files.Output = c.Files.Input }, "files.output", "must differ from files.input"},
		{"output_is_pattern", func(c *Config) { c.Files.Output = c.Files.Pattern }, "files.output", "must differ from files.pattern"},
		{"pattern_is_input", func(c *Config) { c.Files.Pattern = c.Files.Input }, "files.pattern", "must differ from files.input"},
		{"quorum_zero", func(c *Config) { c.Quorum.Percent = 0 }, "quorum.percent", "must be at least 1"},
		{"quorum_over", func(c *Config) { c.Quorum.Percent = 150 }, "quorum.percent", "must be at most 100"},
		{"max_line_bytes", func(c *Config) { c.Scan.MaxLineBytes = 0 }, "scan.max_line_bytes", "must be at least 1"},
		{"log_level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level", "must be one of: debug, info, warn, error"},
		{"log_format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format", "must be one of: text, json"},
		{"status_format", func(c *Config) { c.Status.Format = "jsonl" }, "status.format", "must be one of: pretty, json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			errs := cfg.Validate()
			require.Len(t, errs, 1, "errors: %v", errs)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.message, errs[0].Message)
		})
	}
}

func TestConfig_Validate_AcceptsStrategySpellings(t *testing.T) {
	for _, name := range []string{"single", "QUORUM", "multi", "per_pattern", "per-pattern", "Any"} {
		cfg := Default()
		cfg.Strategy = name
		assert.Empty(t, cfg.Validate(), name)
	}
}

func TestConfig_ValidatePaths(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name   string
		modify func(*Config)
		field  string
		want   string
	}{
		{"defaults", func(*Config) {}, "", ""},
		{"dotted_output", func(c *Config) { c.Files.Output = "./input.txt" }, "files.output", "must differ from files.input"},
		{"absolute_output", func(c *Config) { c.Files.Output = filepath.Join(base, "pattern.txt") }, "files.output", "must differ from files.pattern"},
		{"parent_segment", func(c *Config) { c.Files.Pattern = "sub/../input.txt" }, "files.pattern", "must differ from files.input"},
		{"other_dir", func(c *Config) { c.Files.Output = "out/input.txt" }, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			errs := cfg.ValidatePaths(base)
			if tt.field == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.want, errs[0].Message)
		})
	}
}

func TestConfig_ValidatePaths_Symlink(t *testing.T) {
	base := t.TempDir()
	writeConfig(t, filepath.Join(base, "input.txt"), "cat\n")
	if err := os.Symlink(filepath.Join(base, "input.txt"), filepath.Join(base, "link.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	cfg := Default()
	cfg.Files.Output = "link.txt"

	errs := cfg.ValidatePaths(base)
	require.Len(t, errs, 1)
	assert.Equal(t, "files.output", errs[0].Field)
	assert.Equal(t, "link.txt", errs[0].Value)
}
