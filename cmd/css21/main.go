package main

import (
	"fmt"
	"io"
	"os"

	"github.com/evanw/css21/internal/config"
	"github.com/evanw/css21/internal/exitcode"
	"github.com/evanw/css21/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags shared by every command. Each one overrides the matching config file
// setting, but only if it was given on the command line.
type globalFlags struct {
	configPath      string
	maxNestingDepth int
	color           string
	logLevel        string
	errorLimit      int
	format          string
	timing          bool
}

func (g *globalFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&g.configPath, "config", "", "config file (default: search for .css21.toml or .css21.yaml)")
	flags.IntVar(&g.maxNestingDepth, "max-nesting-depth", 0, "maximum number of open blocks (0 means 256)")
	flags.StringVar(&g.color, "color", "", "use terminal colors (auto, always, never)")
	flags.StringVar(&g.logLevel, "log-level", "", "diagnostics to print (info, warning, error, silent)")
	flags.IntVar(&g.errorLimit, "error-limit", config.DefaultErrorLimit, "maximum error count or 0 to disable")
	flags.StringVar(&g.format, "format", "", "output format for dumps (text, json, yaml)")
	flags.BoolVar(&g.timing, "timing", false, "print how long each phase took")
}

func (g *globalFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if g.configPath != "" {
		cfg, err = config.Load(g.configPath)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("max-nesting-depth") {
		cfg.Parser.MaxNestingDepth = g.maxNestingDepth
	}
	if flags.Changed("color") {
		cfg.Output.Color = g.color
	}
	if flags.Changed("log-level") {
		cfg.Output.LogLevel = g.logLevel
	}
	if flags.Changed("error-limit") {
		limit := g.errorLimit
		cfg.Output.ErrorLimit = &limit
	}
	if flags.Changed("format") {
		cfg.Output.Format = g.format
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "css21",
		Short:         "A CSS 2.1 parser with forward-compatible error recovery",
		Version:       css21Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	flags.register(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newParseCmd(flags))
	rootCmd.AddCommand(newTokensCmd(flags))
	rootCmd.AddCommand(newStyleCmd(flags))
	rootCmd.AddCommand(newFmtCmd(flags))
	rootCmd.AddCommand(newCheckCmd(flags))
	rootCmd.AddCommand(newLSPCmd(flags))

	return rootCmd
}

func main() {
	rootCmd := newRootCmd(os.Stdin, os.Stdout)
	if err := rootCmd.Execute(); err != nil {
		if !exitcode.IsReported(err) {
			logger.PrintErrorToStderr(os.Args, err.Error())
		}
		os.Exit(exitcode.Get(err))
	}
}
