package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Sadath08/Trivara-room/internal/domain"
)

// defaultMaxGuests applies when a listing predates the max_guests column.
const defaultMaxGuests = 8

type roomResponse struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Location  string  `json:"location"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url"`
	MaxGuests *int    `json:"max_guests"`
}

// GetRoom fetches the listing that seeds a booking flow.
func (c *Client) GetRoom(ctx context.Context, id int64) (domain.Property, error) {
	var room roomResponse
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/rooms/%d", id), "", nil, &room)
	if err != nil {
		if up, ok := domain.AsUpstream(err); ok && up.Status == http.StatusNotFound {
			return domain.Property{}, domain.NotFoundError{Resource: "property", Err: err}
		}
		return domain.Property{}, err
	}

	p := domain.Property{
		ID:          room.ID,
		Title:       room.Title,
		Location:    room.Location,
		NightlyRate: room.Price,
		ImageURL:    room.ImageURL,
		MaxGuests:   defaultMaxGuests,
	}
	if p.Location == "" {
		p.Location = "Unknown Location"
	}
	if room.MaxGuests != nil && *room.MaxGuests > 0 {
		p.MaxGuests = *room.MaxGuests
	}
	return p, nil
}
