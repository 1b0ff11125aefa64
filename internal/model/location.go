package model

// Location categories used for UI autocomplete grouping.
const (
	LocationAirport = "airport"
	LocationHotel   = "hotel"
	LocationOther   = "other"
)

// Location is an advisory entry for the autocomplete list; job locations
// stay free text and carry no foreign key to this table.
type Location struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Type    string `json:"type"`
}
