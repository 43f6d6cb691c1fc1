package main

import (
	"errors"
	"fmt"

	"github.com/patterntool/patterntool/internal/config"
	"github.com/patterntool/patterntool/internal/logging"
	"github.com/patterntool/patterntool/internal/workdir"
	"github.com/patterntool/patterntool/pkg/linefilter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootOptions holds flags that are not configuration keys.
type rootOptions struct {
	cfgFile string
	verbose bool
	quiet   bool

	// configErr records a config file that exists but could not be read.
	configErr error
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "patterntool",
		Short: "Filter the lines of a text file through regular expressions",
		Long: `Filter the lines of input.txt through the regular expressions in
pattern.txt and write every matching line to output.txt.

Files are looked up in the base directory: --dir, PATTERNTOOL_DIR, the
working directory if it contains input.txt, else the executable's directory.

Strategies:
  single       the whole pattern file is one regex (default)
  quorum       one regex per line; emit a line once per regex whose match
               count reaches --quorum-percent of the line length
  multi        the whole pattern file is one regex, for one-line pattern files
  per-pattern  one regex per line; one full pass over the input per regex
  any          one regex per line; emit a line once if any regex matches

Examples:
  # Run with defaults in the current directory
  patterntool

  # Filter with one regex per pattern line
  patterntool --strategy any

  # Use another directory and output file
  patterntool --dir ./data --output matches.txt

  # Machine-readable status
  patterntool --format json | jq .summary.lines_emitted`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.configErr = initConfig(opts.cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.cfgFile, "config", "c", "",
		"config file (default is patterntool.yaml in the base directory, $HOME/.config/patterntool or .)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging on stderr")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress the banner and status report")

	f := cmd.Flags()
	f.StringP("strategy", "s", config.Default().Strategy, "Match strategy: single, quorum, multi, per-pattern, any")
	f.StringP("dir", "d", "", "Base directory for relative file names (auto-detected if not specified)")
	f.String("input", linefilter.DefaultInputFile, "Input file name")
	f.String("pattern", linefilter.DefaultPatternFile, "Pattern file name (.yaml/.yml for a YAML pattern file)")
	f.String("output", linefilter.DefaultOutputFile, "Output file name")
	f.Int("quorum-percent", linefilter.DefaultQuorumPercent, "Quorum threshold in percent of the line length")
	f.Int("max-line-bytes", linefilter.DefaultMaxLineBytes, "Longest accepted input line in bytes")
	f.StringP("format", "f", config.Default().Status.Format, "Status format: pretty, json")
	f.String("log-format", config.Default().Logging.Format, "Log format: text, json")

	bindFlags(cmd, map[string]string{
		"strategy":            "strategy",
		"dir":                 "dir",
		"files.input":         "input",
		"files.pattern":       "pattern",
		"files.output":        "output",
		"quorum.percent":      "quorum-percent",
		"scan.max_line_bytes": "max-line-bytes",
		"status.format":       "format",
		"logging.format":      "log-format",
	})

	_ = cmd.RegisterFlagCompletionFunc("strategy", completeStrategies)
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{"pretty", "json"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.MarkFlagDirname("dir")

	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(newStrategiesCmd())

	return cmd
}

func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		_ = viper.BindPFlag(key, cmd.Flags().Lookup(name))
	}
}

// initConfig sets defaults, environment binding and the config file search.
// A missing config file is not an error.
func initConfig(cfgFile string) error {
	config.SetDefaults()
	config.BindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(config.FileName)
		viper.SetConfigType("yaml")
		if dir, err := workdir.FindBaseDir(viper.GetString("dir")); err == nil {
			viper.AddConfigPath(dir)
		}
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

func runFilter(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.Load()
	if opts.configErr != nil {
		err = opts.configErr
	}

	format := viper.GetString("status.format")
	if cfg != nil {
		format = cfg.Status.Format
	}
	rep := newReporter(cmd.OutOrStdout(), format, opts.quiet)
	rep.Banner()

	if err != nil {
		rep.ReportError(linefilter.KindNone, err)
		return &reportedError{code: exitUsage, err: err}
	}

	level := cfg.Logging.Level
	if opts.verbose {
		level = logging.LevelDebug
	}
	logger := logging.New(cmd.ErrOrStderr(), level, cfg.Logging.Format)

	baseDir, err := workdir.FindBaseDir(cfg.Dir)
	if err != nil {
		rep.ReportError(linefilter.KindNone, err)
		return &reportedError{code: exitUsage, err: err}
	}

	if errs := cfg.ValidatePaths(baseDir); len(errs) > 0 {
		rep.ReportError(linefilter.KindNone, errs)
		return &reportedError{code: exitUsage, err: errs}
	}

	strategy, err := cfg.StrategyValue()
	if err != nil {
		rep.ReportError(linefilter.KindNone, err)
		return &reportedError{code: exitUsage, err: err}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("config file loaded", "path", used)
	}
	logger.Debug("resolved base directory", "dir", baseDir, "strategy", strategy.String())

	runOpts := append(cfg.Options(), linefilter.WithLogger(logger))
	sum, err := linefilter.RunFiles(cmd.Context(), cfg.Paths(baseDir), strategy, runOpts...)
	if err != nil {
		kind := linefilter.KindOf(err)
		logger.Debug("run failed", "kind", kind.String(), "error", err)
		rep.ReportError(kind, err)
		return &reportedError{code: exitCode(kind), err: err}
	}

	logger.Debug("run finished",
		"run_id", sum.RunID,
		"lines_read", sum.LinesRead,
		"lines_emitted", sum.LinesEmitted,
	)
	rep.ReportSuccess(sum)
	return nil
}

func completeStrategies(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, s := range linefilter.Strategies() {
		names = append(names, s.String()+"\t"+s.Description())
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
