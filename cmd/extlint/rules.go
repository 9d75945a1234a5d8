package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"extlint/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:          "rules",
	Short:        "List the registered rules",
	SilenceUsage: true,
	RunE:         runRules,
}

func init() {
	rulesCmd.Flags().StringSlice("categories", nil, "only list rules in these categories")
}

func runRules(cmd *cobra.Command, args []string) error {
	registry, err := rules.Builtin()
	if err != nil {
		return err
	}

	active := registry.All()
	if names, _ := cmd.Flags().GetStringSlice("categories"); len(names) > 0 {
		set, err := rules.ParseCategorySet(names)
		if err != nil {
			return err
		}
		active = registry.Enabled(set)
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tSEVERITY\tDESCRIPTION")
	for _, r := range active {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID(), r.Category, r.Severity, r.Doc)
	}
	return w.Flush()
}
