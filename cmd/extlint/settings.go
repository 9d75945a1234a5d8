package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"extlint/internal/diag"
	"extlint/internal/project"
	"extlint/internal/rules"
)

// resolveSettings loads the manifest governing the working directory and
// layers the command's flag overrides on top.
func resolveSettings(cmd *cobra.Command) (project.Settings, error) {
	wd, err := os.Getwd()
	if err != nil {
		return project.Defaults(), err
	}
	settings, _, err := project.Resolve(wd)
	if err != nil {
		return settings, err
	}

	flags := cmd.Flags()
	if flags.Changed("categories") {
		names, err := flags.GetStringSlice("categories")
		if err != nil {
			return settings, err
		}
		set, err := rules.ParseCategorySet(names)
		if err != nil {
			return settings, err
		}
		settings.Categories = set
	}
	if flags.Changed("jobs") {
		jobs, err := flags.GetInt("jobs")
		if err != nil {
			return settings, err
		}
		if jobs < 1 {
			return settings, fmt.Errorf("--jobs must be at least 1, got %d", jobs)
		}
		settings.MaxWorkers = jobs
	}
	if flags.Changed("fail-on") {
		name, err := flags.GetString("fail-on")
		if err != nil {
			return settings, err
		}
		sev, ok := diag.ParseSeverity(name)
		if !ok {
			return settings, fmt.Errorf("unknown --fail-on severity %q", name)
		}
		settings.FailOn = sev
	}
	return settings, nil
}

// addAnalysisFlags registers the flags shared by check and fix.
func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("categories", nil, "rule categories to run (default: all)")
	cmd.Flags().Int("jobs", 0, "number of parallel workers (default: from manifest or CPU count)")
	cmd.Flags().String("fail-on", "", "lowest severity that fails the run (info|warning|error)")
	cmd.Flags().Bool("no-cache", false, "disable the analysis result cache")
}

// categoryIndex maps every registered rule code to its category name for
// the structured output formats.
func categoryIndex(reg *rules.Registry) map[diag.Code]string {
	idx := make(map[diag.Code]string, len(reg.All()))
	for _, r := range reg.All() {
		idx[r.Code] = r.Category.String()
	}
	return idx
}
