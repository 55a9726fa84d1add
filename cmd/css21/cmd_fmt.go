package main

import (
	"fmt"
	"os"

	"github.com/evanw/css21/internal/css_printer"
	"github.com/evanw/css21/internal/exitcode"
	"github.com/evanw/css21/internal/logger"
	"github.com/spf13/cobra"
)

func newFmtCmd(flags *globalFlags) *cobra.Command {
	var minify bool
	var asciiOnly bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Pretty-print a stylesheet",
		Long: `Pretty-print a stylesheet to stdout.

Comments are not kept, and statements with parse errors are left out. The
errors are printed to stderr and the exit status is 1 when there are any.
If no file is provided, reads the stylesheet from stdin.

Use -w to overwrite the file in place (requires a file argument). A file
with parse errors is never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if overwrite && len(args) == 0 {
				return fmt.Errorf("-w requires a file argument")
			}
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}

			log := logger.NewStderrLog(cfg.StderrOptions())
			timer := flags.newTimer()
			tree, err := parseInput(cmd, args, cfg, log, timer)
			if err != nil {
				log.Done()
				return err
			}

			timer.Begin("Print")
			output := css_printer.Print(tree, css_printer.Options{
				MinifyWhitespace: minify || cfg.Output.Minify,
				ASCIIOnly:        asciiOnly,
			})
			timer.End("Print")

			timer.Log(log)
			log.Done()
			if len(tree.Errors) > 0 {
				if !overwrite {
					cmd.OutOrStdout().Write(output)
				}
				return exitcode.Reported(exitcode.ParseErrors)
			}

			if overwrite {
				if err := os.WriteFile(args[0], output, 0644); err != nil {
					return fmt.Errorf("write file: %w", err)
				}
				return nil
			}
			if _, err := cmd.OutOrStdout().Write(output); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&minify, "minify", false, "remove whitespace")
	cmd.Flags().BoolVar(&asciiOnly, "ascii", false, "escape every character outside of ASCII")
	cmd.Flags().BoolVarP(&overwrite, "write", "w", false, "overwrite the file in place")

	return cmd
}
