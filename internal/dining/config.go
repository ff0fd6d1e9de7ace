package dining

import (
	"time"

	"dineassist-backend/internal/scrapers/netnutrition"

	"golang.org/x/time/rate"
)

// PortalConfig is the configuration file representation of netnutrition.Options.
type PortalConfig struct {
	BaseUrl          string                      `json:"base_url"`
	TimeoutSeconds   int                         `json:"timeout_seconds"`
	UserAgent        string                      `json:"user_agent"`
	CloudflareBypass bool                        `json:"cloudflare_bypass"`
	Endpoints        netnutrition.Endpoints      `json:"endpoints"`
	UnitFields       netnutrition.UnitFieldNames `json:"unit_fields"`
	// RequestsPerSecond limits the requests made to the portal across every session,
	// 0 disables the limit.
	RequestsPerSecond float64 `json:"requests_per_second"`
	Burst             int     `json:"burst"`
}

type SearchConfig struct {
	MaxConcurrentHalls int `json:"max_concurrent_halls"`
}

// Options converts the config, the rate limiter it creates is shared by every session.
func (c PortalConfig) Options() netnutrition.Options {
	opts := netnutrition.Options{
		BaseUrl:          c.BaseUrl,
		Endpoints:        c.Endpoints,
		UnitFields:       c.UnitFields,
		UserAgent:        c.UserAgent,
		Timeout:          time.Duration(c.TimeoutSeconds) * time.Second,
		CloudflareBypass: c.CloudflareBypass,
	}
	if c.RequestsPerSecond > 0 {
		burst := c.Burst
		if burst <= 0 {
			burst = 1
		}
		opts.Limiter = rate.NewLimiter(rate.Limit(c.RequestsPerSecond), burst)
	}
	return opts
}

func (c SearchConfig) CatalogOptions(portal PortalConfig) CatalogOptions {
	return CatalogOptions{
		Portal:             portal.Options(),
		MaxConcurrentHalls: c.MaxConcurrentHalls,
	}
}
