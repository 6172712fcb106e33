package models

// Flight is a flight booking. Departure and arrival times are free text with
// no timezone handling.
type Flight struct {
	ID               int64     `json:"id" db:"id"`
	TripID           int64     `json:"trip_id" db:"trip_id"`
	Airline          string    `json:"airline" db:"airline"`
	FlightNumber     string    `json:"flight_number" db:"flight_number"`
	DepartureAirport string    `json:"departure_airport" db:"departure_airport"`
	DepartureTime    string    `json:"departure_time" db:"departure_time"`
	ArrivalAirport   string    `json:"arrival_airport" db:"arrival_airport"`
	ArrivalTime      string    `json:"arrival_time" db:"arrival_time"`
	ReservationCode  string    `json:"reservation_code" db:"reservation_code"`
	Seat             string    `json:"seat" db:"seat"`
	Terminal         string    `json:"terminal" db:"terminal"`
	Gate             string    `json:"gate" db:"gate"`
	Notes            string    `json:"notes" db:"notes"`
	CreatedAt        Timestamp `json:"created_at" db:"created_at"`
}

// Label returns "Airline FlightNumber" with whichever parts are present.
func (f *Flight) Label() string {
	switch {
	case f.Airline != "" && f.FlightNumber != "":
		return f.Airline + " " + f.FlightNumber
	case f.FlightNumber != "":
		return f.FlightNumber
	default:
		return f.Airline
	}
}
