package commands

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(itemsCmd)
}

var itemsCmd = &cobra.Command{
	Use:   "items <hall> <menu id>",
	Short: "Prints the items of a meal period, the menu id comes from the schedule command.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		hall, err := resolveHall(catalog, args[0])
		if err != nil {
			return err
		}
		menuId, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("menu id must be an integer: %w", err)
		}

		items, err := catalog.Items(cmd.Context(), menuId, hall.ExternalUnitID)
		if err != nil {
			return err
		}
		if outputJson {
			return printJson(cmd.OutOrStdout(), items)
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Item", "Serving size", "Allergens", "Detail ID"})
		for _, item := range items {
			t.AppendRow(table.Row{
				item.Name,
				orDash(item.ServingSize, str),
				joinOrDash(item.Allergens),
				orDash(item.NutritionDetailID, strconv.Itoa),
			})
		}
		t.Render()
		return nil
	},
}
