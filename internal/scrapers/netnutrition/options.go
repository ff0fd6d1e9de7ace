package netnutrition

import (
	"time"

	"dineassist-backend/internal/components/restyutil"

	"golang.org/x/time/rate"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// Endpoints are the portal paths, relative to the base url.
type Endpoints struct {
	Root           string `json:"root"`
	Preferences    string `json:"preferences"`
	SelectUnit     string `json:"select_unit"`
	SelectMenu     string `json:"select_menu"`
	NutritionLabel string `json:"nutrition_label"`
}

var DefaultEndpoints = Endpoints{
	Root:           "/",
	Preferences:    "/Home/SetClientPreferences",
	SelectUnit:     "/Unit/SelectUnitFromUnitsList",
	SelectMenu:     "/Menu/SelectMenu",
	NutritionLabel: "/NutritionDetail/ShowItemNutritionLabel",
}

// UnitPurpose is what a unit is being selected for.
type UnitPurpose int

const (
	UnitForSchedule UnitPurpose = iota
	UnitForItems
)

// UnitFieldNames holds the form field used to post the unit id. The portal has been observed
// accepting "unitOid" when loading schedules and "UnitOid" when loading items, both are kept
// until one is confirmed canonical against the live portal.
type UnitFieldNames struct {
	Schedule string `json:"schedule"`
	Items    string `json:"items"`
}

var DefaultUnitFieldNames = UnitFieldNames{
	Schedule: "unitOid",
	Items:    "UnitOid",
}

func (f UnitFieldNames) For(purpose UnitPurpose) string {
	if purpose == UnitForItems {
		return f.Items
	}
	return f.Schedule
}

const (
	menuField   = "menuOid"
	detailField = "detailOid"
)

// DefaultPreferences is the client preference payload the portal's own javascript posts
// on first load.
var DefaultPreferences = map[string]string{
	"isMobile":    "false",
	"screenWidth": "1920",
}

type Options struct {
	BaseUrl    string
	Endpoints  Endpoints
	UnitFields UnitFieldNames
	// Preferences is the payload of the best-effort preferences step.
	Preferences map[string]string
	UserAgent   string
	// Timeout applies to every single request, expiry is a transport failure.
	Timeout time.Duration
	// Limiter, when set, is waited on before every request. It may be shared between sessions.
	Limiter          *rate.Limiter
	CloudflareBypass bool
	// Capture, when set, receives a dump of every request and response.
	Capture restyutil.Output
}

func (o Options) withDefaults() Options {
	if o.Endpoints.Root == "" {
		o.Endpoints.Root = DefaultEndpoints.Root
	}
	if o.Endpoints.Preferences == "" {
		o.Endpoints.Preferences = DefaultEndpoints.Preferences
	}
	if o.Endpoints.SelectUnit == "" {
		o.Endpoints.SelectUnit = DefaultEndpoints.SelectUnit
	}
	if o.Endpoints.SelectMenu == "" {
		o.Endpoints.SelectMenu = DefaultEndpoints.SelectMenu
	}
	if o.Endpoints.NutritionLabel == "" {
		o.Endpoints.NutritionLabel = DefaultEndpoints.NutritionLabel
	}
	if o.UnitFields.Schedule == "" {
		o.UnitFields.Schedule = DefaultUnitFieldNames.Schedule
	}
	if o.UnitFields.Items == "" {
		o.UnitFields.Items = DefaultUnitFieldNames.Items
	}
	if o.Preferences == nil {
		o.Preferences = DefaultPreferences
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return o
}
