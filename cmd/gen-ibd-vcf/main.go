// Package main provides the gen-ibd-vcf command-line tool, which writes a
// simulated two-sample VCF containing one identity-by-descent segment.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jameshicks/adios/internal/simulate"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	configName = ".gen-ibd-vcf"
	envPrefix  = "GEN_IBD_VCF"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// app carries the state shared by all subcommands.
type app struct {
	argv    []string
	stdout  io.Writer
	stderr  io.Writer
	v       *viper.Viper
	logger  *zap.Logger
	cfgFile string
	verbose bool
}

// run executes the command line argv (including the program name) and
// returns the process exit code.
func run(argv []string, stdout, stderr io.Writer) int {
	a := &app{
		argv:   argv,
		stdout: stdout,
		stderr: stderr,
		v:      viper.New(),
		logger: zap.NewNop(),
	}
	defer func() { _ = a.logger.Sync() }()

	root := a.newRootCmd()
	if len(argv) > 1 {
		root.SetArgs(argv[1:])
	} else {
		root.SetArgs([]string{})
	}

	err := root.Execute()
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)

	var uerr *simulate.UsageError
	var ferr *flagError
	if errors.As(err, &uerr) || errors.As(err, &ferr) {
		fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", root.CommandPath())
		return ExitUsage
	}
	return ExitError
}

// flagError marks errors raised while parsing command-line flags or
// positional arguments.
type flagError struct {
	err error
}

func (e *flagError) Error() string { return e.err.Error() }
func (e *flagError) Unwrap() error { return e.err }

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gen-ibd-vcf",
		Short: "Simulate a two-sample VCF with one IBD segment",
		Long: `Generate a toy VCF for two individuals (DUMMY_A, DUMMY_B) that share
one allele at every marker inside a fixed 20Mb identity-by-descent segment
starting a quarter of the way along the sequence.

Options may also be set in ~/.gen-ibd-vcf.yaml or through GEN_IBD_VCF_*
environment variables; flags take precedence.`,
		Example: `  gen-ibd-vcf                                  # 150Mb, marker every 250bp
  gen-ibd-vcf --size 60mb --dist 1000 --out pair.vcf
  gen-ibd-vcf --seed 42 --db runs.duckdb       # reproducible, with marker catalog
  gen-ibd-vcf check pair.vcf                   # verify an output file`,
		Args:          noArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.resolveConfig()
			if err != nil {
				return err
			}
			return runGenerate(cfg, a.stdout, a.logger)
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &flagError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "Config file (default: ~/.gen-ibd-vcf.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	f := root.Flags()
	f.String("size", fmt.Sprint(simulate.DefaultSize), "Sequence length in bases; accepts bp, kb and mb suffixes")
	f.Float64("lambd", simulate.DefaultLambda, "Exponential distribution parameter (mean allele frequency)")
	f.Int64("dist", simulate.DefaultDist, "Distance between markers in bases")
	f.String("out", simulate.DefaultOut, "Output VCF path")
	f.Uint64("seed", 0, "Random seed (0 picks one from the clock)")
	f.String("db", "", "Also record markers in this DuckDB catalog")

	// BindPFlags only fails on a nil flag set.
	_ = a.v.BindPFlags(f)

	root.AddCommand(a.newCheckCmd())
	root.AddCommand(a.newRunsCmd())
	root.AddCommand(a.newConfigCmd())
	root.AddCommand(a.newVersionCmd())

	return root
}

// initConfig loads the config file and environment, then builds the logger.
func (a *app) initConfig() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
		a.v.SetConfigName(configName)
		a.v.SetConfigType("yaml")
	}
	a.v.SetEnvPrefix(envPrefix)
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	a.logger = newLogger(a.stderr, a.verbose)
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("loaded config", zap.String("path", used))
	}
	return nil
}

// resolveConfig merges flags, environment and config file into a Config.
func (a *app) resolveConfig() (simulate.Config, error) {
	cfg := simulate.DefaultConfig()

	size, err := simulate.ParseSize(a.v.GetString("size"))
	if err != nil {
		return cfg, err
	}
	cfg.Size = size
	if cfg.Dist, err = optionValue(a.v, "dist", cast.ToInt64E, "expected an integer"); err != nil {
		return cfg, err
	}
	if cfg.Lambda, err = optionValue(a.v, "lambd", cast.ToFloat64E, "expected a number"); err != nil {
		return cfg, err
	}
	if cfg.Seed, err = optionValue(a.v, "seed", cast.ToUint64E, "expected a non-negative integer"); err != nil {
		return cfg, err
	}
	cfg.Out = a.v.GetString("out")
	cfg.DBPath = a.v.GetString("db")
	cfg.Source = sourceLine(a.argv)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// optionValue converts a setting that may come from a flag, the environment
// or the config file. Unlike the viper getters it does not turn malformed
// values into zero.
func optionValue[T any](v *viper.Viper, key string, conv func(interface{}) (T, error), reason string) (T, error) {
	raw := v.Get(key)
	val, err := conv(raw)
	if err != nil {
		return val, &simulate.UsageError{Option: key, Value: fmt.Sprint(raw), Reason: reason}
	}
	return val, nil
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  noArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "gen-ibd-vcf version %s (%s) built %s\n", version, commit, date)
		},
	}
}

// newLogger returns a console logger on w. Debug messages are only shown
// when verbose is set.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core)
}

// sourceLine reproduces the invoking command line for the ##source header.
func sourceLine(argv []string) string {
	return strings.Join(argv, " ")
}

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &flagError{err: err}
	}
	return nil
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &flagError{err: err}
		}
		return nil
	}
}

// minArgs is cobra.MinimumNArgs reporting a usage error.
func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return &flagError{err: err}
		}
		return nil
	}
}
