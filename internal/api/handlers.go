package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"dineassist-backend/internal/dining"
	"dineassist-backend/internal/scrapers/netnutrition"

	"github.com/gin-gonic/gin"
)

// Catalog is the part of dining.Catalog the handlers use.
type Catalog interface {
	ListHalls() []dining.DiningHall
	HallByID(id int) (dining.DiningHall, bool)
	HallStatus(ctx context.Context, unitId int) (dining.DiningHall, []netnutrition.DayMenu, error)
	GetSchedule(ctx context.Context, unitId int) ([]netnutrition.DayMenu, error)
	GetItems(ctx context.Context, menuId, unitId int) []netnutrition.MenuItem
	GetNutrition(ctx context.Context, detailId int) (netnutrition.NutritionInfo, bool)
	SearchAvailability(ctx context.Context, query string) (dining.Availability, error)
}

type Handler struct {
	catalog Catalog
}

func NewHandler(catalog Catalog) *Handler {
	return &Handler{catalog: catalog}
}

type HallDetail struct {
	Hall     dining.DiningHall      `json:"hall"`
	Schedule []netnutrition.DayMenu `json:"schedule"`
}

func intParam(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("%s must be an integer", name))
		return 0, false
	}
	return value, true
}

// hall resolves the hallId path parameter through the hall reference list.
func (h *Handler) hall(c *gin.Context) (dining.DiningHall, bool) {
	id, ok := intParam(c, "hallId")
	if !ok {
		return dining.DiningHall{}, false
	}
	hall, ok := h.catalog.HallByID(id)
	if !ok {
		respondError(c, http.StatusNotFound, fmt.Sprintf("unknown dining hall %d", id))
		return dining.DiningHall{}, false
	}
	return hall, true
}

func (h *Handler) ListHalls(c *gin.Context) {
	respond(c, http.StatusOK, h.catalog.ListHalls())
}

func (h *Handler) GetHall(c *gin.Context) {
	hall, ok := h.hall(c)
	if !ok {
		return
	}
	hall, days, err := h.catalog.HallStatus(c.Request.Context(), hall.ExternalUnitID)
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusBadGateway, "failed to fetch the schedule of this dining hall")
		return
	}
	respond(c, http.StatusOK, HallDetail{Hall: hall, Schedule: days})
}

func (h *Handler) GetSchedule(c *gin.Context) {
	hall, ok := h.hall(c)
	if !ok {
		return
	}
	days, err := h.catalog.GetSchedule(c.Request.Context(), hall.ExternalUnitID)
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusBadGateway, "failed to fetch the schedule of this dining hall")
		return
	}
	respond(c, http.StatusOK, days)
}

// GetItems always answers 200, a menu that could not be fetched has no items.
func (h *Handler) GetItems(c *gin.Context) {
	hall, ok := h.hall(c)
	if !ok {
		return
	}
	menuId, ok := intParam(c, "menuId")
	if !ok {
		return
	}
	respond(c, http.StatusOK, h.catalog.GetItems(c.Request.Context(), menuId, hall.ExternalUnitID))
}

func (h *Handler) GetNutrition(c *gin.Context) {
	detailId, ok := intParam(c, "detailId")
	if !ok {
		return
	}
	info, ok := h.catalog.GetNutrition(c.Request.Context(), detailId)
	if !ok {
		respondError(c, http.StatusNotFound, "no nutrition information is available for this item")
		return
	}
	respond(c, http.StatusOK, info)
}

func (h *Handler) Search(c *gin.Context) {
	availability, err := h.catalog.SearchAvailability(c.Request.Context(), c.Query("q"))
	if errors.Is(err, dining.ErrEmptyQuery) {
		respondError(c, http.StatusBadRequest, "query parameter q must not be empty")
		return
	}
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusGatewayTimeout, "search did not complete")
		return
	}
	respond(c, http.StatusOK, availability)
}
