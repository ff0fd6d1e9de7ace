package dining

import (
	"context"
	"errors"
	"fmt"

	"dineassist-backend/internal/components/assert"
	"dineassist-backend/internal/components/telemetry"
	"dineassist-backend/internal/scrapers/netnutrition"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_schedule_failed        = "schedule.failed"
	report_schedule_panel_missing = "schedule.panel-missing"
	report_items_failed           = "items.failed"
	report_items_panel_missing    = "items.panel-missing"
	report_nutrition_failed       = "nutrition.failed"
	report_nutrition_unavailable  = "nutrition.unavailable"
	report_session_create         = "session.create"
)

var tracer = otel.Tracer("dineassist-backend/internal/dining")

var ErrUnknownHall = errors.New("dining: unknown hall")

type CatalogOptions struct {
	Portal netnutrition.Options
	// Halls defaults to ReferenceHalls.
	Halls []DiningHall
	// MaxConcurrentHalls bounds the number of halls searched at once, it defaults to the
	// number of halls.
	MaxConcurrentHalls int
}

// Catalog answers questions about the dining halls by scraping the portal. Every operation
// scrapes on its own Session, so a Catalog is safe for concurrent use and holds no scraped state.
type Catalog struct {
	opts CatalogOptions
	tel  telemetry.API
}

func NewCatalog(opts CatalogOptions, tel telemetry.API) Catalog {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.Portal.BaseUrl)

	if len(opts.Halls) == 0 {
		opts.Halls = ReferenceHalls
	}
	if opts.MaxConcurrentHalls <= 0 {
		opts.MaxConcurrentHalls = len(opts.Halls)
	}

	return Catalog{
		opts: opts,
		tel:  telemetry.NewScopedAPI("dining", tel),
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// scrape runs steps on a fresh session which is discarded afterwards.
func (c Catalog) scrape(ctx context.Context, steps ...netnutrition.Step) error {
	s, err := netnutrition.NewSession(c.opts.Portal, c.tel)
	if err != nil {
		c.tel.ReportBroken(report_session_create, err)
		return err
	}
	defer s.Close()
	return netnutrition.RunSteps(ctx, s, c.tel, steps...)
}

// ListHalls returns the hall reference list without contacting the portal.
func (c Catalog) ListHalls() []DiningHall {
	return copyHalls(c.opts.Halls)
}

// FindHall looks a hall up by the portal's unit id.
func (c Catalog) FindHall(unitId int) (DiningHall, bool) {
	return findHall(c.opts.Halls, func(h DiningHall) bool {
		return h.ExternalUnitID == unitId
	})
}

// HallByID looks a hall up by its own id.
func (c Catalog) HallByID(id int) (DiningHall, bool) {
	return findHall(c.opts.Halls, func(h DiningHall) bool {
		return h.ID == id
	})
}

// GetSchedule returns every day the portal publishes for a unit. A portal that answers without
// a menu panel has nothing published, which is an empty schedule and not an error.
func (c Catalog) GetSchedule(ctx context.Context, unitId int) ([]netnutrition.DayMenu, error) {
	ctx, span := tracer.Start(ctx, "GetSchedule")
	defer span.End()
	span.SetAttributes(attribute.Int("unit_id", unitId))

	var env netnutrition.Envelope
	err := c.scrape(
		ctx,
		netnutrition.WarmUpStep(),
		netnutrition.PreferencesStep(),
		netnutrition.SelectUnitStep(unitId, netnutrition.UnitForSchedule, &env),
	)
	if err != nil {
		err = fmt.Errorf("get schedule of unit %d: %w", unitId, err)
		c.tel.ReportWarning(report_schedule_failed, err)
		recordError(span, err)
		return nil, err
	}

	html, ok, err := env.RequirePanel(netnutrition.PanelMenu)
	if err != nil {
		err = fmt.Errorf("get schedule of unit %d: %w", unitId, err)
		c.tel.ReportWarning(report_schedule_failed, err)
		recordError(span, err)
		return nil, err
	}
	if !ok {
		c.tel.ReportWarning(report_schedule_panel_missing, unitId)
		return []netnutrition.DayMenu{}, nil
	}

	days := netnutrition.ExtractSchedule(html)
	if len(days) == 0 {
		err = fmt.Errorf("get schedule of unit %d: %w: %s holds no days", unitId, netnutrition.ErrProtocol, netnutrition.PanelMenu)
		c.tel.ReportWarning(report_schedule_failed, err)
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("days", len(days)))
	return days, nil
}

// Items returns the items of a meal period, failing on any transport or protocol error.
// A menu id of 0 or less is an unusable meal period and yields no items without a request.
func (c Catalog) Items(ctx context.Context, menuId, unitId int) ([]netnutrition.MenuItem, error) {
	if menuId <= 0 {
		return []netnutrition.MenuItem{}, nil
	}

	ctx, span := tracer.Start(ctx, "Items")
	defer span.End()
	span.SetAttributes(attribute.Int("unit_id", unitId), attribute.Int("menu_id", menuId))

	var env netnutrition.Envelope
	err := c.scrape(
		ctx,
		netnutrition.WarmUpStep(),
		netnutrition.PreferencesStep(),
		netnutrition.SelectUnitStep(unitId, netnutrition.UnitForItems, nil),
		netnutrition.SelectMenuStep(menuId, &env),
	)
	if err != nil {
		err = fmt.Errorf("get items of menu %d in unit %d: %w", menuId, unitId, err)
		recordError(span, err)
		return nil, err
	}

	html, ok, err := env.RequirePanel(netnutrition.PanelItems)
	if err != nil {
		err = fmt.Errorf("get items of menu %d in unit %d: %w", menuId, unitId, err)
		recordError(span, err)
		return nil, err
	}
	if !ok {
		c.tel.ReportWarning(report_items_panel_missing, unitId, menuId)
		return []netnutrition.MenuItem{}, nil
	}

	items := netnutrition.ExtractItems(html)
	span.SetAttributes(attribute.Int("items", len(items)))
	return items, nil
}

// GetItems is Items for callers that only want a best effort answer: every failure is
// reported and degrades to an empty list.
func (c Catalog) GetItems(ctx context.Context, menuId, unitId int) []netnutrition.MenuItem {
	items, err := c.Items(ctx, menuId, unitId)
	if err != nil {
		c.tel.ReportWarning(report_items_failed, err)
		return []netnutrition.MenuItem{}
	}
	return items
}

// GetNutrition returns the nutrition label of an item, false means the portal has no usable
// label for it (or could not be reached).
func (c Catalog) GetNutrition(ctx context.Context, detailId int) (netnutrition.NutritionInfo, bool) {
	if detailId <= 0 {
		return netnutrition.NutritionInfo{}, false
	}

	ctx, span := tracer.Start(ctx, "GetNutrition")
	defer span.End()
	span.SetAttributes(attribute.Int("detail_id", detailId))

	var doc netnutrition.NutritionDocument
	err := c.scrape(
		ctx,
		netnutrition.WarmUpStep(),
		netnutrition.NutritionLabelStep(detailId, &doc),
	)
	if err != nil {
		c.tel.ReportWarning(report_nutrition_failed, detailId, err)
		recordError(span, err)
		return netnutrition.NutritionInfo{}, false
	}

	info, ok := netnutrition.ExtractNutrition(doc)
	if !ok {
		c.tel.ReportDebug(report_nutrition_unavailable, detailId)
		return netnutrition.NutritionInfo{}, false
	}
	return info, true
}

// HallStatus returns a hall along with its schedule. The hall is open when the first published
// day has at least one usable meal period.
func (c Catalog) HallStatus(ctx context.Context, unitId int) (DiningHall, []netnutrition.DayMenu, error) {
	hall, ok := c.FindHall(unitId)
	if !ok {
		return DiningHall{}, nil, fmt.Errorf("%w: unit %d", ErrUnknownHall, unitId)
	}

	days, err := c.GetSchedule(ctx, unitId)
	if err != nil {
		return DiningHall{}, nil, err
	}

	open := false
	if len(days) > 0 {
		for _, meal := range days[0].Meals {
			if meal.Usable() {
				open = true
				break
			}
		}
	}
	hall.IsOpen = &open
	return hall, days, nil
}
