package commands

import (
	"strings"

	"dineassist-backend/internal/dining"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Finds the dining halls serving an item whose name contains the query.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		availability, err := catalog.SearchAvailability(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if outputJson {
			return printJson(cmd.OutOrStdout(), availability)
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"When", "Hall", "Date", "Meal", "Item"})
		appendMatches := func(when string, matches []dining.HallMatch) {
			for _, m := range matches {
				t.AppendRow(table.Row{when, m.Hall.Name, m.Date, m.Meal, m.Item.Name})
			}
		}
		appendMatches("today", availability.Today)
		appendMatches("later", availability.Later)
		t.Render()
		return nil
	},
}
