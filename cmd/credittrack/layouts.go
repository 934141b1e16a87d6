package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/rpattn/credittrack/internal/layout"
)

var layoutsCmd = &cobra.Command{
	Use:   "layouts",
	Short: "List the known spreadsheet layouts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		registry, err := layout.LoadRegistry(cfg.Ingestion.LayoutsFile)
		if err != nil {
			return eris.Wrap(err, "load layouts")
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TAG\tVERSION\tCOLUMNS\tREQUIRED\tDESCRIPTION")
		for _, def := range registry.List() {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n", def.Tag, def.Version, len(def.Columns), len(def.Required), strings.TrimSpace(def.Description))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(layoutsCmd)
}
