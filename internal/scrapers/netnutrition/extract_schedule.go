package netnutrition

import (
	"dineassist-backend/internal/components/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var (
	// the current layout renders one bootstrap card per day, older layouts used a table cell
	dayCardSelectors = SelectorChain{
		".card",
		"td.cbo_nn_menuCell",
	}
	dayTitleSelectors = SelectorChain{
		".card-title",
		".cbo_nn_menuDayTitle",
		"header",
	}
	mealLinkSelectors = SelectorChain{
		"a.cbo_nn_menuLink",
		"a[onclick*='SelectMenu']",
	}
)

var menuIdStrategies = []Strategy[int]{
	attrStrategy("onclick", "onclick", parseCallArgument),
	attrStrategy("href", "href", parseCallArgument),
}

func parseCallArgument(handler string) (int, bool) {
	n := ParseCallArgument(handler)
	return n, n > 0
}

// ExtractSchedule extracts every day and its meal periods out of the menu panel's html.
// Malformed markup yields fewer (possibly zero) days, never an error.
func ExtractSchedule(fragment string) []DayMenu {
	doc, err := htmlutil.ParseFragment(fragment)
	if err != nil {
		return []DayMenu{}
	}

	days := []DayMenu{}
	dayCardSelectors.Find(doc.Selection).Each(func(_ int, card *goquery.Selection) {
		date := htmlutil.SelectionText(dayTitleSelectors.Find(card).First())

		meals := []MealPeriod{}
		mealLinkSelectors.Find(card).Each(func(_ int, link *goquery.Selection) {
			meals = append(meals, extractMealPeriod(link, date))
		})

		if date == "" && len(meals) == 0 {
			return
		}
		days = append(days, DayMenu{
			Date:  date,
			Meals: meals,
		})
	})

	return days
}

func extractMealPeriod(link *goquery.Selection, date string) MealPeriod {
	menuId, _, _ := FirstOf(link, menuIdStrategies)
	return MealPeriod{
		ExternalMenuID: menuId,
		Name:           htmlutil.SelectionText(link),
		Date:           date,
	}
}
