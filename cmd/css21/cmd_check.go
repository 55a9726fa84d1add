package main

import (
	"github.com/evanw/css21/internal/config"
	"github.com/evanw/css21/internal/css_ast"
	"github.com/evanw/css21/internal/css_parser"
	"github.com/evanw/css21/internal/exitcode"
	"github.com/evanw/css21/internal/helpers"
	"github.com/evanw/css21/internal/logger"
	"github.com/spf13/cobra"
)

func newCheckCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check [files...]",
		Short: "Report parse errors and warnings",
		Long: `Parse each stylesheet and print its parse errors and warnings to stderr
with the offending source line.

If no files are provided, reads a stylesheet from stdin. The exit status is 1
if any stylesheet had a parse error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}

			log := logger.NewStderrLog(cfg.StderrOptions())
			timer := flags.newTimer()

			if len(args) == 0 {
				args = []string{""}
			}
			for _, arg := range args {
				var inputArgs []string
				if arg != "" {
					inputArgs = []string{arg}
				}
				if _, err := parseInput(cmd, inputArgs, cfg, log, timer); err != nil {
					log.Done()
					return err
				}
			}

			timer.Log(log)
			log.Done()
			if log.HasErrors() {
				return exitcode.Reported(exitcode.ParseErrors)
			}
			return nil
		},
	}
}

func (g *globalFlags) newTimer() *helpers.Timer {
	if g.timing {
		return &helpers.Timer{}
	}
	return nil
}

// Reads and parses one input, sending every message to "log"
func parseInput(cmd *cobra.Command, args []string, cfg *config.Config, log logger.Log, timer *helpers.Timer) (css_ast.Stylesheet, error) {
	timer.Begin("Read")
	name, text, err := readInput(cmd, args)
	timer.End("Read")
	if err != nil {
		return css_ast.Stylesheet{}, err
	}

	timer.Begin("Parse " + name)
	tree := css_parser.Parse(log, logger.Source{PrettyPath: name, Contents: text}, cfg.ParserOptions())
	timer.End("Parse " + name)
	return tree, nil
}
