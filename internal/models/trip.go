package models

// Trip is the root aggregate: one travel itinerary.
type Trip struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	StartDate Date      `json:"start_date" db:"start_date"`
	EndDate   Date      `json:"end_date" db:"end_date"`
	Note      string    `json:"note" db:"note"`
	CreatedAt Timestamp `json:"created_at" db:"created_at"`
}

// Nights returns the number of nights between start and end, or 0 when either
// date is unknown.
func (t *Trip) Nights() int {
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return 0
	}
	return int(t.EndDate.Sub(t.StartDate.Time).Hours() / 24)
}

// TripSettings holds per-trip options. There is at most one row per trip.
type TripSettings struct {
	ID        int64     `json:"id" db:"id"`
	TripID    int64     `json:"trip_id" db:"trip_id"`
	WarikaURL *string   `json:"warika_url" db:"warika_url"` // external bill-splitting page
	CreatedAt Timestamp `json:"created_at" db:"created_at"`
	UpdatedAt Timestamp `json:"updated_at" db:"updated_at"`
}
