package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"extlint/internal/diagfmt"
	"extlint/internal/driver"
	"extlint/internal/observ"
	"extlint/internal/project"
	"extlint/internal/rules"
	"extlint/internal/version"
)

var checkCmd = &cobra.Command{
	Use:          "check [flags] [path ...]",
	Short:        "Analyze extension sources and report findings",
	Long:         `Check runs every enabled rule over the given files or directories and reports the findings without touching any file.`,
	SilenceUsage: true,
	RunE:         runCheck,
}

func init() {
	addAnalysisFlags(checkCmd)
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif)")
	checkCmd.Flags().String("ui", "auto", "interactive progress display (auto|on|off)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	switch format {
	case "pretty", "json", "sarif":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	settings.Mode = project.ModeReport

	if len(args) == 0 {
		args = []string{"."}
	}

	registry, err := rules.Builtin()
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	opts := driver.Options{
		Settings: settings,
		Registry: registry,
		Cache:    openCache(cmd),
		Timer:    timer,
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	uiFlag, _ := cmd.Flags().GetString("ui")
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	var res *driver.Result
	if format == "pretty" && !quiet && shouldUseTUI(mode) {
		res, err = runWithUI(cmd.Context(), "checking", args, opts)
	} else {
		res, err = driver.Run(cmd.Context(), args, opts)
	}
	if err != nil {
		return err
	}

	merged := res.Merged()
	maxDiagnostics, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")

	switch format {
	case "json":
		err = diagfmt.JSON(os.Stdout, merged, res.FileSet, categoryIndex(registry),
			diagfmt.JSONOpts{Max: maxDiagnostics})
	case "sarif":
		err = diagfmt.Sarif(os.Stdout, merged, res.FileSet,
			diagfmt.SarifMeta{ToolName: "extlint", ToolVersion: version.Version})
	default:
		colored := useColor(cmd, os.Stdout)
		diagfmt.Pretty(os.Stdout, merged, res.FileSet, diagfmt.PrettyOpts{
			Color:     colored,
			ShowNotes: true,
			ShowFixes: true,
			Max:       maxDiagnostics,
		})
		if !quiet {
			diagfmt.Summary(os.Stdout, merged, colored)
		}
	}
	if err != nil {
		return err
	}

	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}

	if merged.CountAtLeast(settings.FailOn) > 0 {
		os.Exit(1)
	}
	return nil
}

// openCache returns the shared result cache, or nil when disabled or
// unavailable.
func openCache(cmd *cobra.Command) *driver.Cache {
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		return nil
	}
	cache, err := driver.OpenCache("extlint")
	if err != nil {
		if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
			fmt.Fprintf(os.Stderr, "warning: result cache disabled: %v\n", err)
		}
		return nil
	}
	return cache
}
