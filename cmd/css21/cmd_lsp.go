package main

import (
	"github.com/evanw/css21/internal/lsp"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

func newLSPCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}

			// Stdout carries the protocol, so logs go to stderr unless a file is set
			var path *string
			if cfg.LSP.LogFile != "" {
				path = &cfg.LSP.LogFile
			}
			commonlog.Configure(cfg.LSP.LogVerbosity, path)

			return lsp.NewServer(cfg, css21Version).RunStdio()
		},
	}
}
