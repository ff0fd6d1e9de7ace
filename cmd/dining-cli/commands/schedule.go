package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule <hall>",
	Short: "Prints the days and meal periods a dining hall publishes.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hall, err := resolveHall(catalog, args[0])
		if err != nil {
			return err
		}

		hall, days, err := catalog.HallStatus(cmd.Context(), hall.ExternalUnitID)
		if err != nil {
			return err
		}
		if outputJson {
			return printJson(cmd.OutOrStdout(), map[string]any{"hall": hall, "schedule": days})
		}

		open := "closed"
		if hall.IsOpen != nil && *hall.IsOpen {
			open = "open"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", hall.Name, open)

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Date", "Meal", "Menu ID"})
		for _, day := range days {
			for _, meal := range day.Meals {
				menuId := "-"
				if meal.Usable() {
					menuId = fmt.Sprint(meal.ExternalMenuID)
				}
				t.AppendRow(table.Row{day.Date, meal.Name, menuId})
			}
			t.AppendSeparator()
		}
		t.Render()
		return nil
	},
}
