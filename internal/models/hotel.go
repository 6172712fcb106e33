package models

// Hotel is an accommodation booking.
type Hotel struct {
	ID           int64     `json:"id" db:"id"`
	TripID       int64     `json:"trip_id" db:"trip_id"`
	Name         string    `json:"name" db:"name"`
	Address      string    `json:"address" db:"address"`
	MapURL       string    `json:"map_url" db:"map_url"`
	Website      string    `json:"website" db:"website"`
	CheckinDate  Date      `json:"checkin_date" db:"checkin_date"`
	CheckoutDate Date      `json:"checkout_date" db:"checkout_date"`
	Notes        string    `json:"notes" db:"notes"`
	CreatedAt    Timestamp `json:"created_at" db:"created_at"`
}
