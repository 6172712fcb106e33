package models

// DefaultMemoTab is used when a memo is saved without a tab name.
const DefaultMemoTab = "未分類"

// Memo is a free-text note on a trip.
type Memo struct {
	ID        int64     `json:"id" db:"id"`
	TripID    int64     `json:"trip_id" db:"trip_id"`
	TabName   string    `json:"tab_name" db:"tab_name"`
	Body      string    `json:"body" db:"body"`
	CreatedAt Timestamp `json:"created_at" db:"created_at"`
}
