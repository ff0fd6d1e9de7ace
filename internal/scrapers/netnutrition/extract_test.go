package netnutrition

import (
	"testing"

	_ "embed"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/schedule.html
var scheduleHtml string

//go:embed testdata/schedule_table.html
var scheduleTableHtml string

//go:embed testdata/items.html
var itemsHtml string

//go:embed testdata/items_div.html
var itemsDivHtml string

//go:embed testdata/label.html
var labelHtml []byte

//go:embed testdata/label_no_calories.html
var labelNoCaloriesHtml []byte

func TestParseCallArgument(t *testing.T) {
	testCases := []struct {
		handler  string
		expected int
	}{
		{handler: "javascript:menuListSelectMenu(123);", expected: 123},
		{handler: "menuListSelectMenu( 42 , 'x')", expected: 42},
		{handler: "NetNutrition.UI.menuListSelectMenu('125')", expected: 125},
		{handler: "javascript:getItemNutritionLabelOnClick(event, 4567);", expected: 4567},
		{handler: "javascript:void(0); menuListSelectMenu(89);", expected: 89},
		{handler: "showLabel(this, \"3120\", false)", expected: 3120},
		{handler: "javascript:menuListSelectMenu(-4);", expected: 0},
		{handler: "javascript:menuListSelectMenu();", expected: 0},
		{handler: "javascript:menuListSelectMenu(abc);", expected: 0},
		{handler: "", expected: 0},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, ParseCallArgument(test.handler), test.handler)
	}
}

func TestExtractSchedule(t *testing.T) {
	days := ExtractSchedule(scheduleHtml)
	require.Len(t, days, 2)

	require.Equal(t, "Thursday, October 15, 2026", days[0].Date)
	require.Equal(t, []MealPeriod{
		{ExternalMenuID: 123, Name: "Breakfast", Date: "Thursday, October 15, 2026"},
		{ExternalMenuID: 124, Name: "Lunch", Date: "Thursday, October 15, 2026"},
		{ExternalMenuID: 125, Name: "Dinner", Date: "Thursday, October 15, 2026"},
	}, days[0].Meals)

	require.Equal(t, "Friday, October 16, 2026", days[1].Date)
	require.Len(t, days[1].Meals, 2)
	require.True(t, days[1].Meals[0].Usable())
	require.Equal(t, "Late Night", days[1].Meals[1].Name)
	require.Equal(t, 0, days[1].Meals[1].ExternalMenuID)
	require.False(t, days[1].Meals[1].Usable())
}

func TestExtractScheduleTableLayout(t *testing.T) {
	days := ExtractSchedule(scheduleTableHtml)
	require.Len(t, days, 1)
	require.Equal(t, "Monday, October 19, 2026", days[0].Date)
	require.Len(t, days[0].Meals, 2)
	require.Equal(t, 901, days[0].Meals[0].ExternalMenuID)
	require.Equal(t, "Dinner", days[0].Meals[1].Name)
}

func TestExtractScheduleMalformed(t *testing.T) {
	for _, fragment := range []string{"", "<div>", "not html at all", "<section class=\"card\"></section>"} {
		days := ExtractSchedule(fragment)
		require.NotNil(t, days)
		require.Empty(t, days)
	}
}

func TestExtractItems(t *testing.T) {
	items := ExtractItems(itemsHtml)
	require.Len(t, items, 4)

	pizza := items[0]
	require.Equal(t, "Pizza", pizza.Name)
	require.Equal(t, []string{"Dairy", "Gluten"}, pizza.Allergens)
	require.NotNil(t, pizza.ServingSize)
	require.Equal(t, "1 slice", *pizza.ServingSize)
	// the add control's data attribute takes priority over the onclick and id of the name
	require.NotNil(t, pizza.NutritionDetailID)
	require.Equal(t, 5001, *pizza.NutritionDetailID)

	salad := items[1]
	require.Equal(t, "Garden Salad", salad.Name)
	require.Empty(t, salad.Allergens)
	require.Equal(t, 6002, *salad.NutritionDetailID)
	require.Equal(t, "1 bowl", *salad.ServingSize)

	soup := items[2]
	require.Equal(t, "Vegetable Soup", soup.Name)
	require.Equal(t, 7779, *soup.NutritionDetailID)
	require.Nil(t, soup.ServingSize)

	roll := items[3]
	require.Equal(t, "Bread Roll", roll.Name)
	require.Nil(t, roll.NutritionDetailID)
}

func TestExtractItemsDivLayout(t *testing.T) {
	items := ExtractItems(itemsDivHtml)
	require.Len(t, items, 2)

	require.Equal(t, "Oatmeal", items[0].Name)
	require.Equal(t, []string{"Gluten"}, items[0].Allergens)
	require.Equal(t, "6 oz", *items[0].ServingSize)
	require.Equal(t, 8101, *items[0].NutritionDetailID)

	require.Equal(t, "Plain Bagel", items[1].Name)
	require.NotNil(t, items[1].Allergens)
	require.Nil(t, items[1].NutritionDetailID)
}

func TestExtractItemsMalformed(t *testing.T) {
	for _, fragment := range []string{"", "<table><tr>", "<tr class=\"cbo_nn_itemPrimaryRow\"></tr>"} {
		items := ExtractItems(fragment)
		require.NotNil(t, items)
		require.Empty(t, items)
	}
}

func TestDetailIDStrategyOrder(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(stringsReader(`<table><tr class="cbo_nn_itemPrimaryRow">
		<td><span data-detailoid="0"></span></td>
		<td><a class="cbo_nn_itemHover" id="item_31" onclick="getItemNutritionLabel(30)">Toast</a></td>
	</tr></table>`))
	if err != nil {
		t.Fatal(err)
	}
	row := doc.Find("tr")

	// a non-positive data attribute is not a detail id, so the onclick strategy answers
	value, name, ok := FirstOf(row, DetailIDStrategies)
	require.True(t, ok)
	require.Equal(t, 30, value)
	require.Equal(t, "item-name-onclick", name)
}

func TestDetailIDFromEventHandler(t *testing.T) {
	testCases := []struct {
		onclick  string
		expected int
	}{
		{onclick: "getItemNutritionLabelOnClick(event,4567)", expected: 4567},
		{onclick: "javascript:void(0); getItemNutritionLabel(812);", expected: 812},
	}
	for _, test := range testCases {
		items := ExtractItems(`<table><tr class="cbo_nn_itemPrimaryRow">
			<td></td>
			<td><a class="cbo_nn_itemHover" onclick="` + test.onclick + `">Toast</a></td>
		</tr></table>`)
		require.Len(t, items, 1, test.onclick)
		require.NotNil(t, items[0].NutritionDetailID, test.onclick)
		require.Equal(t, test.expected, *items[0].NutritionDetailID, test.onclick)
	}
}

func TestExtractNutrition(t *testing.T) {
	info, ok := ExtractNutrition(NutritionDocument{
		ContentType: "text/html; charset=utf-8",
		Body:        labelHtml,
	})
	require.True(t, ok)

	value := func(f *float64) float64 {
		require.NotNil(t, f)
		return *f
	}
	require.Equal(t, 285.0, value(info.Calories))
	require.Equal(t, 90.0, value(info.CaloriesFromFat))
	require.Equal(t, 10.4, value(info.TotalFat))
	require.Equal(t, 4.8, value(info.SaturatedFat))
	require.Equal(t, 0.0, value(info.TransFat))
	require.Equal(t, 22.0, value(info.Cholesterol))
	require.Equal(t, 1040.0, value(info.Sodium))
	require.Equal(t, 35.6, value(info.TotalCarbohydrate))
	require.Equal(t, 1.0, value(info.DietaryFiber))
	require.Equal(t, 3.8, value(info.Sugars))
	require.Equal(t, 12.2, value(info.Protein))
	require.Equal(t, 18.0, value(info.Calcium))
	require.Equal(t, 14.0, value(info.Iron))
	require.Nil(t, info.VitaminA)
	require.Nil(t, info.Potassium)

	require.NotNil(t, info.ServingSize)
	require.Equal(t, "1 slice", *info.ServingSize)
	require.NotNil(t, info.Ingredients)
	require.Equal(t, "Enriched flour, tomato sauce, mozzarella cheese", *info.Ingredients)
}

func TestExtractNutritionUnavailable(t *testing.T) {
	testCases := []NutritionDocument{
		{ContentType: "text/html", Body: labelNoCaloriesHtml},
		{ContentType: "application/json; charset=utf-8", Body: []byte(`{"success":false,"panels":[]}`)},
		{ContentType: "text/html", Body: []byte(`{"success":false}`)},
		{ContentType: "text/html", Body: []byte("   ")},
		{},
	}
	for _, doc := range testCases {
		_, ok := ExtractNutrition(doc)
		require.False(t, ok, string(doc.Body))
	}
}
