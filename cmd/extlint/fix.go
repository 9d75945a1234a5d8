package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"extlint/internal/diag"
	"extlint/internal/diagfmt"
	"extlint/internal/driver"
	"extlint/internal/fix"
	"extlint/internal/observ"
	"extlint/internal/project"
	"extlint/internal/rules"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [path ...]",
	Short: "Apply automated fixes for reported findings",
	Long: `Fix re-runs the analysis and rewrites the files whose findings carry an
automated correction. Only always-safe fixes are applied unless --review
admits the ones that need a human decision.`,
	SilenceUsage: true,
	RunE:         runFix,
}

func init() {
	addAnalysisFlags(fixCmd)
	fixCmd.Flags().Bool("dry-run", false, "show what would change without writing any file")
	fixCmd.Flags().Bool("review", false, "also apply fixes that need review")
	fixCmd.Flags().String("rule", "", "only apply fixes proposed by this rule id")
	fixCmd.Flags().Bool("diff", false, "print a unified diff of the changes")
}

func runFix(cmd *cobra.Command, args []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	settings.Mode = project.ModeFix

	if len(args) == 0 {
		args = []string{"."}
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	review, _ := cmd.Flags().GetBool("review")
	ruleID, _ := cmd.Flags().GetString("rule")
	showDiff, _ := cmd.Flags().GetBool("diff")

	fixOpts := fix.Options{
		DryRun: dryRun,
		RuleID: ruleID,
	}
	if review {
		fixOpts.MaxApplicability = diag.FixNeedsReview
	}

	timer := observ.NewTimer()
	// no cache: a fix run works from fresh findings
	res, err := driver.Run(cmd.Context(), args, driver.Options{
		Settings:   settings,
		FixOptions: fixOpts,
		Timer:      timer,
	})
	if err != nil {
		return err
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	colored := useColor(cmd, os.Stdout)

	if res.Fix == nil || len(res.Fix.Applied) == 0 {
		if !quiet {
			fmt.Println("nothing to fix")
		}
		reportLeftovers(cmd, res, quiet, colored)
		exitOnLeftovers(res, settings, dryRun)
		return nil
	}

	if showDiff || dryRun {
		diagfmt.Diff(os.Stdout, res.Fix.Files)
	}

	if !quiet {
		verb := "fixed"
		if dryRun {
			verb = "would fix"
		}
		fmt.Printf("%s %d finding(s) in %d file(s)\n", verb, len(res.Fix.Applied), len(res.Fix.Files))
		for _, skipped := range res.Fix.Skipped {
			fmt.Printf("skipped %s in %s: %s\n", skipped.RuleID, skipped.Path, skipped.Reason)
		}
		for _, conflict := range res.Fix.Conflicts {
			fmt.Printf("conflict: %v\n", conflict)
		}
	}

	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	exitOnLeftovers(res, settings, dryRun)
	return nil
}

// exitOnLeftovers terminates with status 1 when findings at or above the
// fail threshold survived the fix pass. A dry run fixes nothing, so every
// finding counts.
func exitOnLeftovers(res *driver.Result, settings project.Settings, dryRun bool) {
	remaining := res.Merged().CountAtLeast(settings.FailOn)
	if !dryRun && res.Fix != nil {
		severities := make(map[diag.Code]diag.Severity)
		if registry, err := rules.Builtin(); err == nil {
			for _, r := range registry.All() {
				severities[r.Code] = r.Severity
			}
		}
		for _, applied := range res.Fix.Applied {
			if severities[applied.Code] >= settings.FailOn {
				remaining--
			}
		}
	}
	if remaining > 0 {
		os.Exit(1)
	}
}

// reportLeftovers prints the findings that had no applicable fix so a fix
// run never silently swallows them.
func reportLeftovers(cmd *cobra.Command, res *driver.Result, quiet bool, colored bool) {
	merged := res.Merged()
	if merged.Len() == 0 {
		return
	}
	maxDiagnostics, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	diagfmt.Pretty(os.Stdout, merged, res.FileSet, diagfmt.PrettyOpts{
		Color:     colored,
		ShowFixes: true,
		Max:       maxDiagnostics,
	})
	if !quiet {
		diagfmt.Summary(os.Stdout, merged, colored)
	}
}
