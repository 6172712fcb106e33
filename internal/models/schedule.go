package models

// Schedule is one slot of the itinerary. Date and times are kept as the text
// the user typed.
type Schedule struct {
	ID        int64  `json:"id" db:"id"`
	TripID    int64  `json:"trip_id" db:"trip_id"`
	Title     string `json:"title" db:"title"`
	Date      string `json:"date" db:"date"`
	StartTime string `json:"start_time" db:"start_time"`
	EndTime   string `json:"end_time" db:"end_time"`
	Detail    string `json:"detail" db:"detail"`
	PlaceDetails
	CreatedAt Timestamp `json:"created_at" db:"created_at"`
}

// ParsedDate returns the schedule date, or false when it is empty or not a
// YYYY-MM-DD value.
func (s *Schedule) ParsedDate() (Date, bool) {
	d, err := ParseDate(s.Date)
	if err != nil || d.IsZero() {
		return Date{}, false
	}
	return d, true
}

// SchedulePost is a diary entry attached to a schedule slot.
type SchedulePost struct {
	ID         int64     `json:"id" db:"id"`
	ScheduleID int64     `json:"schedule_id" db:"schedule_id"`
	TimeLabel  string    `json:"time_label" db:"time_label"`
	Title      string    `json:"title" db:"title"`
	Body       string    `json:"body" db:"body"`
	CreatedAt  Timestamp `json:"created_at" db:"created_at"`
}
