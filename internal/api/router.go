package api

import (
	"net/http"
	"time"

	"dineassist-backend/internal/components/telemetry"

	"github.com/gin-gonic/gin"
)

type RouterOptions struct {
	// RequestTimeout bounds every request, 0 disables it.
	RequestTimeout time.Duration
}

// NewRouter builds the gin engine serving the dining routes under /v0/dining.
func NewRouter(h *Handler, tel telemetry.API, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logger(tel))

	r.GET("/health", func(c *gin.Context) {
		respond(c, http.StatusOK, gin.H{"status": "ok"})
	})

	v0 := r.Group("/v0/dining")
	v0.Use(Timeout(opts.RequestTimeout))
	{
		v0.GET("/halls", h.ListHalls)
		v0.GET("/halls/:hallId", h.GetHall)
		v0.GET("/halls/:hallId/schedule", h.GetSchedule)
		v0.GET("/halls/:hallId/menus/:menuId/items", h.GetItems)
		v0.GET("/nutrition/:detailId", h.GetNutrition)
		v0.GET("/search", h.Search)
	}

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "route not found")
	})

	return r
}
