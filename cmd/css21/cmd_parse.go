package main

import (
	"io"
	"strings"

	"github.com/evanw/css21/pkg/api"
	"github.com/spf13/cobra"
)

type styleResult struct {
	Declarations []api.Declaration `json:"declarations" yaml:"declarations"`
	Errors       []api.Message     `json:"errors" yaml:"errors"`
}

type tokensResult struct {
	Tokens []api.Token   `json:"tokens" yaml:"tokens"`
	Errors []api.Message `json:"errors" yaml:"errors"`
}

func newParseCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the rules of a stylesheet",
		Long: `Parse a stylesheet and print its rules, parse errors, and warnings.

If no file is provided, reads the stylesheet from stdin. Use --format to
choose between text, json, and yaml output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			name, text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			sheet := api.ParseStylesheet(text, api.ParseOptions{
				MaxNestingDepth: cfg.Parser.MaxNestingDepth,
				Sourcefile:      name,
			})
			return writeResult(cmd.OutOrStdout(), cfg.Output.Format, sheet, func(w io.Writer) {
				dumpStylesheet(w, sheet)
			})
		},
	}
}

func newTokensCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token tree of a stylesheet",
		Long: `Tokenize a stylesheet and print the tokens. Blocks and functions are
printed with their contents indented below them.

If no file is provided, reads the stylesheet from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			name, text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			tokens, errors := api.Tokenize(text, api.ParseOptions{
				MaxNestingDepth: cfg.Parser.MaxNestingDepth,
				Sourcefile:      name,
			})
			result := tokensResult{Tokens: tokens, Errors: errors}
			return writeResult(cmd.OutOrStdout(), cfg.Output.Format, result, func(w io.Writer) {
				dumpTokens(w, tokens, "")
				dumpMessages(w, errors, nil)
			})
		},
	}
}

func newStyleCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "style <declarations>",
		Short: "Print the declarations of a style attribute",
		Long: `Parse the arguments as the contents of an HTML "style" attribute and
print the declarations and parse errors. Multiple arguments are joined with
spaces.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}

			decls, errors := api.ParseStyleAttr(strings.Join(args, " "), api.ParseOptions{
				MaxNestingDepth: cfg.Parser.MaxNestingDepth,
			})
			result := styleResult{Declarations: decls, Errors: errors}
			return writeResult(cmd.OutOrStdout(), cfg.Output.Format, result, func(w io.Writer) {
				dumpDeclarations(w, decls, "")
				dumpMessages(w, errors, nil)
			})
		},
	}
}
