package upstream

import (
	"context"
	"net/http"
	"time"

	"github.com/Sadath08/Trivara-room/internal/domain"
)

// Check-in and check-out are fixed times of day on the chosen dates.
const (
	checkInHour  = 14
	checkOutHour = 11
)

type BookingRequest struct {
	RoomID        int64                `json:"room_id"`
	StartDate     string               `json:"start_date"`
	EndDate       string               `json:"end_date"`
	Guests        int                  `json:"guests"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
}

type BookingConfirmation struct {
	ID            int64   `json:"id"`
	RoomID        int64   `json:"room_id"`
	UserID        int64   `json:"user_id"`
	TotalPrice    float64 `json:"total_price"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"payment_method"`
	PaymentStatus string  `json:"payment_status"`
	TransactionID string  `json:"transaction_id"`
}

// NewBookingRequest shapes a draft into the booking-creation payload,
// pinning check-in at 14:00 and check-out at 11:00 local time.
func NewBookingRequest(d domain.BookingDraft) BookingRequest {
	return BookingRequest{
		RoomID:        d.PropertyID,
		StartDate:     atHour(d.CheckIn, checkInHour).Format(time.RFC3339),
		EndDate:       atHour(d.CheckOut, checkOutHour).Format(time.RFC3339),
		Guests:        d.GuestCount,
		PaymentMethod: d.PaymentMethod,
	}
}

func atHour(t time.Time, hour int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, time.Local)
}

// CreateBooking submits the booking to the platform. The token is the
// caller's bearer credential; its absence is checked before this call.
func (c *Client) CreateBooking(ctx context.Context, token string, req BookingRequest) (BookingConfirmation, error) {
	var conf BookingConfirmation
	if err := c.do(ctx, http.MethodPost, "/bookings", token, req, &conf); err != nil {
		return BookingConfirmation{}, err
	}
	return conf, nil
}
