package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(hallsCmd)
}

var hallsCmd = &cobra.Command{
	Use:   "halls",
	Short: "Lists the dining halls of the hall reference list.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		halls := catalog.ListHalls()
		if outputJson {
			return printJson(cmd.OutOrStdout(), halls)
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"ID", "Name", "Unit ID"})
		for _, h := range halls {
			t.AppendRow(table.Row{h.ID, h.Name, h.ExternalUnitID})
		}
		t.Render()
		return nil
	},
}
