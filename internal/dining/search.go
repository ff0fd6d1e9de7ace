package dining

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"dineassist-backend/internal/components/textutil"
	"dineassist-backend/internal/scrapers/netnutrition"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	report_search_hall_failed   = "search.hall-failed"
	report_search_matches_today = "search.matches-today"
	report_search_matches_later = "search.matches-later"
)

var ErrEmptyQuery = errors.New("dining: empty search query")

// HallMatch is the first item of a hall matching a search.
type HallMatch struct {
	Hall DiningHall            `json:"hall"`
	Date string                `json:"date"`
	Meal string                `json:"meal"`
	Item netnutrition.MenuItem `json:"item"`
}

// Availability is where a dish can be found. Today holds the halls serving it on the first day
// the hall publishes, Later the halls only serving it on a later day. A hall appears at most once.
type Availability struct {
	Query string      `json:"query"`
	Today []HallMatch `json:"today"`
	Later []HallMatch `json:"later"`
}

type hallResult struct {
	match HallMatch
	today bool
	found bool
}

// SearchAvailability searches every hall for an item whose name contains query, case
// insensitively. Halls are searched concurrently, each on its own sessions. A hall that fails is
// left out of the result, it never fails the search.
func (c Catalog) SearchAvailability(ctx context.Context, query string) (Availability, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Availability{}, ErrEmptyQuery
	}

	ctx, span := tracer.Start(ctx, "SearchAvailability")
	defer span.End()
	span.SetAttributes(attribute.String("query", query))

	halls := c.ListHalls()
	results := make([]hallResult, len(halls))

	var group errgroup.Group
	group.SetLimit(c.opts.MaxConcurrentHalls)
	for i, hall := range halls {
		group.Go(func() error {
			res, err := c.searchHall(ctx, hall, query)
			if err != nil {
				c.tel.ReportWarning(report_search_hall_failed, hall.Name, err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	group.Wait()

	err := ctx.Err()
	if err != nil {
		recordError(span, err)
		return Availability{}, fmt.Errorf("search availability: %w", err)
	}

	availability := Availability{
		Query: query,
		Today: []HallMatch{},
		Later: []HallMatch{},
	}
	for _, res := range results {
		if !res.found {
			continue
		}
		if res.today {
			availability.Today = append(availability.Today, res.match)
		} else {
			availability.Later = append(availability.Later, res.match)
		}
	}

	byHallId := func(a, b HallMatch) int {
		return a.Hall.ID - b.Hall.ID
	}
	slices.SortFunc(availability.Today, byHallId)
	slices.SortFunc(availability.Later, byHallId)

	c.tel.ReportCount(report_search_matches_today, int64(len(availability.Today)))
	c.tel.ReportCount(report_search_matches_later, int64(len(availability.Later)))
	span.SetAttributes(
		attribute.Int("matches_today", len(availability.Today)),
		attribute.Int("matches_later", len(availability.Later)),
	)

	return availability, nil
}

func (c Catalog) searchHall(ctx context.Context, hall DiningHall, query string) (hallResult, error) {
	days, err := c.GetSchedule(ctx, hall.ExternalUnitID)
	if err != nil {
		return hallResult{}, err
	}

	for i, day := range days {
		match, found, err := c.searchDay(ctx, hall, day, query)
		if err != nil {
			return hallResult{}, err
		}
		if found {
			return hallResult{match: match, today: i == 0, found: true}, nil
		}
	}
	return hallResult{}, nil
}

func (c Catalog) searchDay(ctx context.Context, hall DiningHall, day netnutrition.DayMenu, query string) (HallMatch, bool, error) {
	for _, meal := range day.Meals {
		if !meal.Usable() {
			continue
		}
		items, err := c.Items(ctx, meal.ExternalMenuID, hall.ExternalUnitID)
		if err != nil {
			return HallMatch{}, false, err
		}
		for _, item := range items {
			if textutil.ContainsFold(item.Name, query) {
				return HallMatch{
					Hall: hall,
					Date: day.Date,
					Meal: meal.Name,
					Item: item,
				}, true, nil
			}
		}
	}
	return HallMatch{}, false, nil
}
