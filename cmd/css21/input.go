package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Reads the file named by the only argument, or standard input if there are
// no arguments
func readInput(cmd *cobra.Command, args []string) (name string, text string, err error) {
	if len(args) == 0 {
		contents, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return "<stdin>", string(contents), nil
	}

	contents, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("read file: %w", err)
	}
	return args[0], string(contents), nil
}

// Writes "value" as JSON or YAML, or calls "text" for the plain format
func writeResult(w io.Writer, format string, value any, text func(w io.Writer)) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(value); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}

	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}

	default:
		text(w)
	}
	return nil
}
