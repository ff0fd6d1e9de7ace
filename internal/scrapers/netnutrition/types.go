package netnutrition

import (
	"errors"
)

var (
	// ErrTransport wraps timeouts, connection failures and non-2xx statuses.
	ErrTransport = errors.New("netnutrition: transport failure")
	// ErrProtocol wraps responses the portal accepted but whose shape is unusable:
	// undecodable envelopes, `success: false` and blank panels.
	ErrProtocol = errors.New("netnutrition: protocol failure")
)

// DayMenu is every meal period the portal publishes for one calendar day.
type DayMenu struct {
	// Date is the portal's own human readable date, it is not normalized.
	Date  string       `json:"date"`
	Meals []MealPeriod `json:"meals"`
}

// MealPeriod is a single menu (breakfast, lunch, ...) on a given day.
type MealPeriod struct {
	// ExternalMenuID is the only handle to request the items of this period,
	// 0 means it could not be determined and the period is unusable.
	ExternalMenuID int    `json:"externalMenuId"`
	Name           string `json:"name"`
	Date           string `json:"date"`
}

// Usable reports whether items can be requested for the period.
func (m MealPeriod) Usable() bool {
	return m.ExternalMenuID > 0
}

type MenuItem struct {
	Name              string   `json:"name"`
	ServingSize       *string  `json:"servingSize,omitempty"`
	Allergens         []string `json:"allergens"`
	NutritionDetailID *int     `json:"nutritionDetailId,omitempty"`
}

// NutritionInfo is a nutrition label, every field is nil when it was not found on the label.
type NutritionInfo struct {
	ServingSize       *string  `json:"servingSize,omitempty"`
	Calories          *float64 `json:"calories,omitempty"`
	CaloriesFromFat   *float64 `json:"caloriesFromFat,omitempty"`
	TotalFat          *float64 `json:"totalFat,omitempty"`
	SaturatedFat      *float64 `json:"saturatedFat,omitempty"`
	TransFat          *float64 `json:"transFat,omitempty"`
	Cholesterol       *float64 `json:"cholesterol,omitempty"`
	Sodium            *float64 `json:"sodium,omitempty"`
	TotalCarbohydrate *float64 `json:"totalCarbohydrate,omitempty"`
	DietaryFiber      *float64 `json:"dietaryFiber,omitempty"`
	Sugars            *float64 `json:"sugars,omitempty"`
	Protein           *float64 `json:"protein,omitempty"`
	VitaminA          *float64 `json:"vitaminA,omitempty"`
	VitaminC          *float64 `json:"vitaminC,omitempty"`
	VitaminD          *float64 `json:"vitaminD,omitempty"`
	Calcium           *float64 `json:"calcium,omitempty"`
	Iron              *float64 `json:"iron,omitempty"`
	Potassium         *float64 `json:"potassium,omitempty"`
	Ingredients       *string  `json:"ingredients,omitempty"`
}

// NutritionDocument is the raw response of the nutrition label endpoint.
type NutritionDocument struct {
	ContentType string
	Body        []byte
}
