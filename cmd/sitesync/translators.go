package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/medstock/sitesync/internal/translate"
)

var translatorsCmd = &cobra.Command{
	Use:   "translators",
	Short: "List registered translators in pull dependency order",
	Args:  cobra.NoArgs,
	RunE:  runTranslators,
}

func runTranslators(cmd *cobra.Command, args []string) error {
	reg := translate.NewDefaultRegistry()

	order, err := reg.PullOrder()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WIRE TABLE\tDEPENDS ON\tPUSHES")
	for _, tr := range order {
		deps := strings.Join(tr.PullDependencies(), ", ")
		if deps == "" {
			deps = "-"
		}
		pushes := tr.ChangelogCategory()
		if pushes == "" {
			pushes = "- (pull only)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", tr.Table(), deps, pushes)
	}
	return w.Flush()
}
