package models

// PhotoOwner identifies which kind of row a photo belongs to. Each owner kind
// has its own photo table.
type PhotoOwner string

const (
	PhotoOwnerPlace        PhotoOwner = "places"
	PhotoOwnerSchedule     PhotoOwner = "schedules"
	PhotoOwnerSchedulePost PhotoOwner = "posts"
	PhotoOwnerHotel        PhotoOwner = "hotels"
)

// Photo is an append-only photo row belonging to a place, schedule, schedule
// post, or hotel.
type Photo struct {
	ID        int64      `json:"id" db:"id"`
	Owner     PhotoOwner `json:"owner" db:"-"`
	OwnerID   int64      `json:"owner_id" db:"owner_id"`
	PhotoURL  string     `json:"photo_url" db:"photo_url"`
	CreatedAt Timestamp  `json:"created_at" db:"created_at"`
}

// Gallery returns the photo URLs in order with duplicates and blanks removed.
// When there are no photo rows the snapshot photo is used instead.
func Gallery(photos []*Photo, fallback *string) []string {
	seen := make(map[string]bool, len(photos))
	urls := make([]string, 0, len(photos))
	for _, p := range photos {
		if p.PhotoURL == "" || seen[p.PhotoURL] {
			continue
		}
		seen[p.PhotoURL] = true
		urls = append(urls, p.PhotoURL)
	}
	if len(urls) == 0 && fallback != nil && *fallback != "" {
		urls = append(urls, *fallback)
	}
	return urls
}
