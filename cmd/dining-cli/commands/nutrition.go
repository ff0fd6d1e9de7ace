package commands

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(nutritionCmd)
}

var nutritionCmd = &cobra.Command{
	Use:   "nutrition <detail id>",
	Short: "Prints the nutrition label of an item, the detail id comes from the items command.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		detailId, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("detail id must be an integer: %w", err)
		}

		info, ok := catalog.GetNutrition(cmd.Context(), detailId)
		if !ok {
			return fmt.Errorf("no nutrition information is available for item %d", detailId)
		}
		if outputJson {
			return printJson(cmd.OutOrStdout(), info)
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Nutrient", "Amount"})
		t.AppendRows([]table.Row{
			{"Serving size", orDash(info.ServingSize, str)},
			{"Calories", orDash(info.Calories, formatFloat)},
			{"Calories from fat", orDash(info.CaloriesFromFat, formatFloat)},
			{"Total fat (g)", orDash(info.TotalFat, formatFloat)},
			{"Saturated fat (g)", orDash(info.SaturatedFat, formatFloat)},
			{"Trans fat (g)", orDash(info.TransFat, formatFloat)},
			{"Cholesterol (mg)", orDash(info.Cholesterol, formatFloat)},
			{"Sodium (mg)", orDash(info.Sodium, formatFloat)},
			{"Total carbohydrate (g)", orDash(info.TotalCarbohydrate, formatFloat)},
			{"Dietary fiber (g)", orDash(info.DietaryFiber, formatFloat)},
			{"Sugars (g)", orDash(info.Sugars, formatFloat)},
			{"Protein (g)", orDash(info.Protein, formatFloat)},
			{"Vitamin A", orDash(info.VitaminA, formatFloat)},
			{"Vitamin C", orDash(info.VitaminC, formatFloat)},
			{"Vitamin D", orDash(info.VitaminD, formatFloat)},
			{"Calcium", orDash(info.Calcium, formatFloat)},
			{"Iron", orDash(info.Iron, formatFloat)},
			{"Potassium", orDash(info.Potassium, formatFloat)},
		})
		t.Render()

		if info.Ingredients != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Ingredients: %s\n", *info.Ingredients)
		}
		return nil
	},
}
