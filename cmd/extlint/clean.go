package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"extlint/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:          "clean",
	Short:        "Remove the analysis result cache",
	Long:         "Remove every cached analysis result. The next run re-analyzes everything from scratch.",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	cache, err := driver.OpenCache("extlint")
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to drop cache: %w", err)
	}
	if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
		fmt.Fprintln(os.Stdout, "analysis cache cleared")
	}
	return nil
}
