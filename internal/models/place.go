package models

import "strings"

// PlaceDetails is a snapshot of the maps/places service fields, captured when
// the owning row is written. Every field is optional.
type PlaceDetails struct {
	PlaceID          *string  `json:"place_id" db:"place_id"`
	Address          *string  `json:"address" db:"address"`
	Lat              *float64 `json:"lat" db:"lat"`
	Lng              *float64 `json:"lng" db:"lng"`
	PhotoURL         *string  `json:"photo_url" db:"photo_url"`
	Rating           *float64 `json:"rating" db:"rating"`
	UserRatingsTotal *int     `json:"user_ratings_total" db:"user_ratings_total"`
	Website          *string  `json:"website" db:"website"`
	Phone            *string  `json:"phone" db:"phone"`
	GoogleURL        *string  `json:"google_url" db:"google_url"`
	OpeningHours     *string  `json:"opening_hours" db:"opening_hours"`
}

// HasLocation reports whether both coordinates are known.
func (d PlaceDetails) HasLocation() bool {
	return d.Lat != nil && d.Lng != nil
}

// IsEmpty reports whether no snapshot field is set.
func (d PlaceDetails) IsEmpty() bool {
	return d == PlaceDetails{}
}

// Place categories.
const (
	CategorySpot       = "スポット"
	CategoryRestaurant = "レストラン"
	CategoryIzakaya    = "居酒屋"
	CategoryCafe       = "カフェ"
	CategoryBar        = "バー"
	CategoryOther      = "その他"
)

// PlaceCategories lists the categories in display order.
var PlaceCategories = []string{
	CategorySpot, CategoryRestaurant, CategoryIzakaya, CategoryCafe, CategoryBar, CategoryOther,
}

var legacyCategories = map[string]string{
	"spot":       CategorySpot,
	"restaurant": CategoryRestaurant,
	"izakaya":    CategoryIzakaya,
	"cafe":       CategoryCafe,
}

// NormalizeCategory maps free-form input onto one of PlaceCategories. Older
// rows used English keys; unknown values fall back to CategoryOther.
func NormalizeCategory(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return CategoryOther
	}
	for _, c := range PlaceCategories {
		if c == value {
			return c
		}
	}
	if c, ok := legacyCategories[strings.ToLower(value)]; ok {
		return c
	}
	return CategoryOther
}

// Place is somewhere the traveller wants to go.
type Place struct {
	ID       int64  `json:"id" db:"id"`
	TripID   int64  `json:"trip_id" db:"trip_id"`
	Name     string `json:"name" db:"name"`
	Category string `json:"category" db:"category"`
	Notes    string `json:"notes" db:"notes"`
	PlaceDetails
	CreatedAt Timestamp `json:"created_at" db:"created_at"`
}
