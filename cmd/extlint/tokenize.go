package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"extlint/internal/diagfmt"
	"extlint/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:          "tokenize [flags] file.cs",
	Short:        "Dump the token stream of one source file",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	if result.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color: useColor(cmd, os.Stderr),
		})
	}

	switch format {
	case "pretty":
		return diagfmt.TokensPretty(os.Stdout, result.Tokens, result.FileSet)
	case "json":
		return diagfmt.TokensJSON(os.Stdout, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
