package dining

import (
	"context"
	"net/http"
	"testing"
	"time"

	"dineassist-backend/internal/components/telemetry"
	"dineassist-backend/internal/scrapers/netnutrition"
	"dineassist-backend/internal/scrapers/netnutrition/portaltest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(
		m,
		goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).writeLoop"),
	)
}

var testHalls = []DiningHall{
	{ID: 1, Name: "Bolton Dining Commons", ExternalUnitID: 101},
	{ID: 2, Name: "Snelling Dining Commons", ExternalUnitID: 102},
	{ID: 3, Name: "Oglethorpe Dining Commons", ExternalUnitID: 103},
	{ID: 4, Name: "The Village Summit", ExternalUnitID: 104},
}

func lunch(id int, items ...portaltest.Item) portaltest.Menu {
	return portaltest.Menu{ID: id, Name: "Lunch", Items: items}
}

func testUnits() []portaltest.Unit {
	return []portaltest.Unit{
		{
			ID: 101,
			Days: []portaltest.Day{
				{Date: "Thursday, October 15, 2026", Menus: []portaltest.Menu{
					lunch(10, portaltest.Item{Name: "Cheese Pizza", ServingSize: "1 slice", Allergens: []string{"Dairy", "Gluten"}, DetailID: 501}),
				}},
			},
		},
		{
			ID: 102,
			Days: []portaltest.Day{
				{Date: "Thursday, October 15, 2026", Menus: []portaltest.Menu{
					lunch(10, portaltest.Item{Name: "Ramen", DetailID: 601}),
				}},
				{Date: "Friday, October 16, 2026", Menus: []portaltest.Menu{
					lunch(20, portaltest.Item{Name: "Pepperoni PIZZA", DetailID: 602}),
				}},
			},
		},
		{
			ID: 103,
			Days: []portaltest.Day{
				{Date: "Thursday, October 15, 2026", Menus: []portaltest.Menu{
					lunch(10, portaltest.Item{Name: "Veggie Pizza", DetailID: 701}),
				}},
			},
		},
		{
			ID:        104,
			DivLayout: true,
			Days: []portaltest.Day{
				{Date: "Thursday, October 15, 2026", Menus: []portaltest.Menu{
					{ID: 0, Name: "Closed"},
				}},
				{Date: "Friday, October 16, 2026", Menus: []portaltest.Menu{
					lunch(30, portaltest.Item{Name: "Tofu Bowl", DetailID: 801}),
				}},
			},
		},
	}
}

func setup(t testing.TB) (*portaltest.Portal, *telemetry.RecorderAPI, Catalog) {
	portal := portaltest.New(testUnits()...)
	t.Cleanup(portal.Close)

	tel := telemetry.NewRecorderAPI()
	catalog := NewCatalog(CatalogOptions{
		Portal: netnutrition.Options{
			BaseUrl: portal.URL(),
			Timeout: 5 * time.Second,
		},
		Halls: testHalls,
	}, tel)
	return portal, tel, catalog
}

func TestListHalls(t *testing.T) {
	portal, _, catalog := setup(t)

	halls := catalog.ListHalls()
	diff := cmp.Diff(testHalls, halls)
	if diff != "" {
		t.Fatal(diff)
	}
	for _, h := range halls {
		require.Nil(t, h.IsOpen)
	}

	halls[0].Name = "changed"
	require.Equal(t, "Bolton Dining Commons", catalog.ListHalls()[0].Name)
	require.Equal(t, int64(0), portal.Requests())
}

func TestReferenceHalls(t *testing.T) {
	catalog := NewCatalog(CatalogOptions{Portal: netnutrition.Options{BaseUrl: "https://dining.example.edu"}}, telemetry.NewRecorderAPI())
	halls := catalog.ListHalls()
	require.Len(t, halls, len(ReferenceHalls))

	seen := map[int]bool{}
	for i, h := range halls {
		require.Equal(t, i+1, h.ID)
		require.Positive(t, h.ExternalUnitID)
		require.False(t, seen[h.ExternalUnitID], h.Name)
		seen[h.ExternalUnitID] = true
	}
}

func TestFindHall(t *testing.T) {
	_, _, catalog := setup(t)

	hall, ok := catalog.FindHall(103)
	require.True(t, ok)
	require.Equal(t, 3, hall.ID)

	hall, ok = catalog.HallByID(2)
	require.True(t, ok)
	require.Equal(t, 102, hall.ExternalUnitID)

	_, ok = catalog.FindHall(999)
	require.False(t, ok)
	_, ok = catalog.HallByID(0)
	require.False(t, ok)
}

func TestGetSchedule(t *testing.T) {
	portal, _, catalog := setup(t)

	days, err := catalog.GetSchedule(context.Background(), 102)
	require.NoError(t, err)
	require.Len(t, days, 2)
	require.Equal(t, "Friday, October 16, 2026", days[1].Date)
	require.Equal(t, []netnutrition.MealPeriod{
		{ExternalMenuID: 20, Name: "Lunch", Date: "Friday, October 16, 2026"},
	}, days[1].Meals)
	require.Equal(t, map[string]int{"unitOid": 1}, portal.UnitFieldsSeen())
}

func TestGetScheduleFailures(t *testing.T) {
	testCases := []struct {
		name    string
		prepare func(p *portaltest.Portal)
		err     error
	}{
		{
			name: "success false",
			prepare: func(p *portaltest.Portal) {
				p.OverrideUnitResponse(101, `{"success":false,"panels":[]}`)
			},
			err: netnutrition.ErrProtocol,
		},
		{
			name: "blank panel",
			prepare: func(p *portaltest.Portal) {
				p.OverrideUnitResponse(101, `{"success":true,"panels":[{"id":"menuPanel","html":"   "}]}`)
			},
			err: netnutrition.ErrProtocol,
		},
		{
			name: "panel without days",
			prepare: func(p *portaltest.Portal) {
				p.OverrideUnitResponse(101, `{"success":true,"panels":[{"id":"menuPanel","html":"<p>Menus are loading, please wait</p>"}]}`)
			},
			err: netnutrition.ErrProtocol,
		},
		{
			name: "undecodable envelope",
			prepare: func(p *portaltest.Portal) {
				p.OverrideUnitResponse(101, `<html>maintenance</html>`)
			},
			err: netnutrition.ErrProtocol,
		},
		{
			name: "unit selection transport failure",
			prepare: func(p *portaltest.Portal) {
				p.SetFault(portaltest.PathSelectUnit, portaltest.Fault{Status: http.StatusBadGateway})
			},
			err: netnutrition.ErrTransport,
		},
		{
			name: "warm up transport failure",
			prepare: func(p *portaltest.Portal) {
				p.SetFault(portaltest.PathRoot, portaltest.Fault{Drop: true})
			},
			err: netnutrition.ErrTransport,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			portal, tel, catalog := setup(t)
			test.prepare(portal)

			days, err := catalog.GetSchedule(context.Background(), 101)
			require.ErrorIs(t, err, test.err)
			require.Contains(t, err.Error(), "unit 101")
			require.Nil(t, days)
			require.True(t, tel.Has(telemetry.LevelWarning, report_schedule_failed))
		})
	}
}

func TestGetScheduleMissingPanel(t *testing.T) {
	portal, _, catalog := setup(t)
	portal.OverrideUnitResponse(101, `{"success":true,"panels":[{"id":"unitsPanel","html":"<div></div>"}]}`)

	days, err := catalog.GetSchedule(context.Background(), 101)
	require.NoError(t, err)
	require.NotNil(t, days)
	require.Empty(t, days)
}

func TestGetScheduleOptionalPreferences(t *testing.T) {
	portal, tel, catalog := setup(t)
	portal.SetFault(portaltest.PathPreferences, portaltest.Fault{Status: http.StatusNotFound})

	days, err := catalog.GetSchedule(context.Background(), 101)
	require.NoError(t, err)
	require.Len(t, days, 1)
	require.True(t, tel.Has(telemetry.LevelWarning, "steps.optional"))
}

func TestGetItems(t *testing.T) {
	portal, _, catalog := setup(t)

	items := catalog.GetItems(context.Background(), 10, 101)
	require.Len(t, items, 1)
	require.Equal(t, "Cheese Pizza", items[0].Name)
	require.Equal(t, []string{"Dairy", "Gluten"}, items[0].Allergens)
	require.Equal(t, "1 slice", *items[0].ServingSize)
	require.Equal(t, 501, *items[0].NutritionDetailID)
	require.Equal(t, map[string]int{"UnitOid": 1}, portal.UnitFieldsSeen())

	items = catalog.GetItems(context.Background(), 30, 104)
	require.Len(t, items, 1)
	require.Equal(t, "Tofu Bowl", items[0].Name)
}

func TestGetItemsUnusableMenu(t *testing.T) {
	portal, _, catalog := setup(t)

	require.Empty(t, catalog.GetItems(context.Background(), 0, 101))
	require.Empty(t, catalog.GetItems(context.Background(), -1, 101))
	require.Equal(t, int64(0), portal.Requests())
}

func TestGetItemsFailures(t *testing.T) {
	portal, tel, catalog := setup(t)
	portal.SetFault(portaltest.PathSelectMenu, portaltest.Fault{Drop: true})

	items := catalog.GetItems(context.Background(), 10, 101)
	require.NotNil(t, items)
	require.Empty(t, items)
	require.True(t, tel.Has(telemetry.LevelWarning, report_items_failed))

	_, err := catalog.Items(context.Background(), 10, 101)
	require.ErrorIs(t, err, netnutrition.ErrTransport)

	portal.ClearFaults()

	// menu 20 is not published by unit 101, the portal answers success: false
	items = catalog.GetItems(context.Background(), 20, 101)
	require.Empty(t, items)
	_, err = catalog.Items(context.Background(), 20, 101)
	require.ErrorIs(t, err, netnutrition.ErrProtocol)
}

func TestGetNutrition(t *testing.T) {
	portal, _, catalog := setup(t)
	portal.SetLabel(501, portaltest.RenderLabel("1 slice", 285, 10, 640, "flour, tomato, cheese"))

	info, ok := catalog.GetNutrition(context.Background(), 501)
	require.True(t, ok)
	require.Equal(t, 285.0, *info.Calories)
	require.Equal(t, 10.0, *info.TotalFat)
	require.Equal(t, "1 slice", *info.ServingSize)

	_, ok = catalog.GetNutrition(context.Background(), 502)
	require.False(t, ok)

	portal.SetLabel(503, `<html><body><table><tr><td>Total Fat 3g</td></tr></table></body></html>`)
	_, ok = catalog.GetNutrition(context.Background(), 503)
	require.False(t, ok)

	portal.SetFault(portaltest.PathNutritionLabel, portaltest.Fault{Status: http.StatusInternalServerError})
	_, ok = catalog.GetNutrition(context.Background(), 501)
	require.False(t, ok)
}

func TestGetNutritionInvalidDetail(t *testing.T) {
	portal, _, catalog := setup(t)

	_, ok := catalog.GetNutrition(context.Background(), 0)
	require.False(t, ok)
	require.Equal(t, int64(0), portal.Requests())
}

func TestHallStatus(t *testing.T) {
	_, _, catalog := setup(t)

	hall, days, err := catalog.HallStatus(context.Background(), 101)
	require.NoError(t, err)
	require.Equal(t, 1, hall.ID)
	require.NotNil(t, hall.IsOpen)
	require.True(t, *hall.IsOpen)
	require.Len(t, days, 1)

	// the first day only lists a meal period without a usable menu id
	hall, _, err = catalog.HallStatus(context.Background(), 104)
	require.NoError(t, err)
	require.False(t, *hall.IsOpen)

	_, _, err = catalog.HallStatus(context.Background(), 999)
	require.ErrorIs(t, err, ErrUnknownHall)

	require.Nil(t, catalog.ListHalls()[0].IsOpen)
}
