// Package config loads the tool's configuration from defaults, an optional
// YAML file, PATTERNTOOL_* environment variables and command-line flags.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/patterntool/patterntool/pkg/linefilter"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by viper,
// e.g. PATTERNTOOL_STRATEGY or PATTERNTOOL_FILES_OUTPUT.
const EnvPrefix = "PATTERNTOOL"

// FileName is the config file name searched for, without extension.
const FileName = "patterntool"

// Config represents the complete configuration of a run
type Config struct {
	// Strategy names the match strategy: single, quorum, multi, per-pattern or any
	Strategy string `mapstructure:"strategy" validate:"required,strategy"`
	// Dir is the base directory for relative file names (empty = auto-detect)
	Dir     string        `mapstructure:"dir"`
	Files   FilesConfig   `mapstructure:"files"`
	Quorum  QuorumConfig  `mapstructure:"quorum"`
	Scan    ScanConfig    `mapstructure:"scan"`
	Logging LoggingConfig `mapstructure:"logging"`
	Status  StatusConfig  `mapstructure:"status"`
}

// FilesConfig names the input, pattern and output files. Relative names are
// resolved against the base directory.
type FilesConfig struct {
	Input   string `mapstructure:"input" validate:"required"`
	Pattern string `mapstructure:"pattern" validate:"required,nefield=Input"`
	// Output must not name the input or pattern file: it is truncated before
	// either is read. ValidatePaths repeats the check on resolved paths.
	Output string `mapstructure:"output" validate:"required,nefield=Input,nefield=Pattern"`
}

// QuorumConfig controls the quorum strategy
type QuorumConfig struct {
	// Percent of a line's length the match count must reach (1-100, default: 30)
	Percent int `mapstructure:"percent" validate:"min=1,max=100"`
}

// ScanConfig controls input reading
type ScanConfig struct {
	// MaxLineBytes is the longest accepted input line (default: 1 MiB)
	MaxLineBytes int `mapstructure:"max_line_bytes" validate:"min=1"`
}

// LoggingConfig controls diagnostic logging on stderr
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default: "info")
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	// Format is text or json (default: "text")
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// StatusConfig controls the status report printed on stdout
type StatusConfig struct {
	// Format is pretty (styled text) or json (one JSON object) (default: "pretty")
	Format string `mapstructure:"format" validate:"oneof=pretty json"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Strategy: linefilter.SingleExact.String(),
		Files: FilesConfig{
			Input:   linefilter.DefaultInputFile,
			Pattern: linefilter.DefaultPatternFile,
			Output:  linefilter.DefaultOutputFile,
		},
		Quorum: QuorumConfig{
			Percent: linefilter.DefaultQuorumPercent,
		},
		Scan: ScanConfig{
			MaxLineBytes: linefilter.DefaultMaxLineBytes,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Status: StatusConfig{
			Format: "pretty",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("strategy", defaults.Strategy)
	viper.SetDefault("dir", defaults.Dir)

	viper.SetDefault("files.input", defaults.Files.Input)
	viper.SetDefault("files.pattern", defaults.Files.Pattern)
	viper.SetDefault("files.output", defaults.Files.Output)

	viper.SetDefault("quorum.percent", defaults.Quorum.Percent)
	viper.SetDefault("scan.max_line_bytes", defaults.Scan.MaxLineBytes)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.format", defaults.Logging.Format)

	viper.SetDefault("status.format", defaults.Status.Format)
}

// BindEnv makes viper read PATTERNTOOL_* variables. Dots in nested keys
// become underscores: files.output is PATTERNTOOL_FILES_OUTPUT.
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}

	return &cfg, nil
}

// StrategyValue returns the parsed strategy. Call it on a validated Config.
func (c *Config) StrategyValue() (linefilter.Strategy, error) {
	return linefilter.ParseStrategy(c.Strategy)
}

// Paths resolves the configured file names against baseDir. Absolute names
// are kept as they are.
func (c *Config) Paths(baseDir string) linefilter.Paths {
	return linefilter.Paths{
		Input:   resolve(baseDir, c.Files.Input),
		Pattern: resolve(baseDir, c.Files.Pattern),
		Output:  resolve(baseDir, c.Files.Output),
	}
}

// Options returns the run options derived from the configuration.
func (c *Config) Options() []linefilter.Option {
	return []linefilter.Option{
		linefilter.WithQuorumPercent(c.Quorum.Percent),
		linefilter.WithMaxLineBytes(c.Scan.MaxLineBytes),
	}
}

func resolve(baseDir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(baseDir, name)
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "patterntool")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".patterntool"
	}
	return filepath.Join(home, ".config", "patterntool")
}
