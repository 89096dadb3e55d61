package model

// Movie statuses as stored in the movies collection.
const (
	MovieStatusShowing    = "showing"
	MovieStatusComingSoon = "coming_soon"
)

// Movie is a film in the catalogue.  Duration (minutes) feeds the showtime
// scheduler's end-time computation; the remaining fields are browse surface.
type Movie struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Duration    int    `json:"duration"`
	AgeRating   string `json:"ageRating"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Status      string `json:"status"`
}
