package netnutrition

import (
	"strings"

	"dineassist-backend/internal/components/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var (
	itemRowSelectors = SelectorChain{
		"tr.cbo_nn_itemPrimaryRow, tr.cbo_nn_itemAlternateRow",
		"div.cbo_nn_itemPrimaryRow, div.cbo_nn_itemAlternateRow, div.cbo_nn_itemRow",
	}
	itemNameSelectors = SelectorChain{
		"a.cbo_nn_itemHover",
		"span.cbo_nn_itemHover",
		".cbo_nn_itemName",
	}
)

// the table layout puts the serving size in the third cell of the row
const servingSizeCell = 2

var servingSizeStrategies = []Strategy[string]{
	{
		Name: "table-cell",
		Extract: func(row *goquery.Selection) (string, bool) {
			cell := row.ChildrenFiltered("td").Eq(servingSizeCell)
			text := htmlutil.SelectionText(cell)
			return text, text != ""
		},
	},
	{
		Name: "serving-size-class",
		Extract: func(row *goquery.Selection) (string, bool) {
			text := htmlutil.SelectionText(row.Find(".cbo_nn_itemServingSize").First())
			return text, text != ""
		},
	},
}

// DetailIDStrategies are tried in order, the first one yielding an integer wins.
var DetailIDStrategies = []Strategy[int]{
	{
		Name: "add-control-data-attribute",
		Extract: func(row *goquery.Selection) (int, bool) {
			value, exists := row.Find("[data-detailoid]").First().Attr("data-detailoid")
			if !exists {
				return 0, false
			}
			return parsePositiveInt(value)
		},
	},
	{
		Name: "item-name-onclick",
		Extract: func(row *goquery.Selection) (int, bool) {
			value, exists := itemNameSelectors.Find(row).First().Attr("onclick")
			if !exists {
				return 0, false
			}
			return parseCallArgument(value)
		},
	},
	{
		Name: "item-name-id-suffix",
		Extract: func(row *goquery.Selection) (int, bool) {
			value, exists := itemNameSelectors.Find(row).First().Attr("id")
			if !exists {
				return 0, false
			}
			return parseNumericSuffix(value)
		},
	},
}

// ExtractItems extracts the menu items out of the item panel's html. Table rows are tried
// first, then div rows. Malformed markup yields fewer (possibly zero) items, never an error.
func ExtractItems(fragment string) []MenuItem {
	doc, err := htmlutil.ParseFragment(fragment)
	if err != nil {
		return []MenuItem{}
	}

	items := []MenuItem{}
	itemRowSelectors.Find(doc.Selection).Each(func(_ int, row *goquery.Selection) {
		item, ok := extractItem(row)
		if ok {
			items = append(items, item)
		}
	})
	return items
}

func extractItem(row *goquery.Selection) (MenuItem, bool) {
	nameEl := itemNameSelectors.Find(row).First()

	var name string
	if nameEl.Length() > 0 {
		name = htmlutil.SelectionText(nameEl)
	} else if goquery.NodeName(row) == "div" {
		name = htmlutil.SelectionText(row)
	}
	if name == "" {
		return MenuItem{}, false
	}

	item := MenuItem{
		Name:      name,
		Allergens: extractAllergens(nameEl),
	}

	servingSize, _, ok := FirstOf(row, servingSizeStrategies)
	if ok {
		item.ServingSize = &servingSize
	}

	detailId, _, ok := FirstOf(row, DetailIDStrategies)
	if ok {
		item.NutritionDetailID = &detailId
	}

	return item, true
}

func extractAllergens(nameEl *goquery.Selection) []string {
	allergens := []string{}
	nameEl.Find("img").Each(func(_ int, img *goquery.Selection) {
		alt := strings.TrimSpace(img.AttrOr("alt", ""))
		if alt != "" {
			allergens = append(allergens, alt)
		}
	})
	return allergens
}
