package domain

// Property is the listing being booked, seeded once from the room lookup
// at flow start. NightlyRate and MaxGuests drive pricing and guest clamps.
type Property struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Location    string  `json:"location"`
	NightlyRate float64 `json:"nightly_rate"`
	ImageURL    string  `json:"image_url,omitempty"`
	MaxGuests   int     `json:"max_guests"`
}
