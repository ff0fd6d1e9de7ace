package dining

// DiningHall is an entry of the hall reference list. The portal has no endpoint listing its
// units, so the list is maintained by hand.
type DiningHall struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	ExternalUnitID int    `json:"externalUnitId"`
	// IsOpen is only set by HallStatus, it is nil everywhere else.
	IsOpen *bool `json:"isOpen"`
}

// ReferenceHalls is the default hall reference list, ordered by ID.
var ReferenceHalls = []DiningHall{
	{ID: 1, Name: "Bolton Dining Commons", ExternalUnitID: 3},
	{ID: 2, Name: "Snelling Dining Commons", ExternalUnitID: 4},
	{ID: 3, Name: "Oglethorpe Dining Commons", ExternalUnitID: 5},
	{ID: 4, Name: "The Village Summit", ExternalUnitID: 6},
	{ID: 5, Name: "East Campus Village", ExternalUnitID: 7},
	{ID: 6, Name: "Joe Frank Harris Commons", ExternalUnitID: 8},
	{ID: 7, Name: "Niche Dining", ExternalUnitID: 9},
	{ID: 8, Name: "Tate Student Center Food Court", ExternalUnitID: 11},
	{ID: 9, Name: "Health Sciences Market", ExternalUnitID: 12},
	{ID: 10, Name: "Bulldog Cafe", ExternalUnitID: 14},
	{ID: 11, Name: "Café on the Green", ExternalUnitID: 15},
	{ID: 12, Name: "Law Library Grab and Go", ExternalUnitID: 17},
}

func copyHalls(halls []DiningHall) []DiningHall {
	out := make([]DiningHall, len(halls))
	for i, h := range halls {
		h.IsOpen = nil
		out[i] = h
	}
	return out
}

func findHall(halls []DiningHall, match func(DiningHall) bool) (DiningHall, bool) {
	for _, h := range halls {
		if match(h) {
			h.IsOpen = nil
			return h, true
		}
	}
	return DiningHall{}, false
}
