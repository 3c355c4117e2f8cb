package domain

import (
	"strings"
	"time"
)

// PaymentMethod is the active two-option set. Legacy UPI-link/UPI-ID
// variants from an earlier payment step are not accepted.
type PaymentMethod string

const (
	PayOnSite PaymentMethod = "pay_on_site"
	QRCodePay PaymentMethod = "qr_code"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.TrimSpace(strings.ToLower(s))) {
	case PayOnSite:
		return PayOnSite, nil
	case QRCodePay:
		return QRCodePay, nil
	default:
		return "", ValidationError{Field: "payment_method", Msg: "must be pay_on_site or qr_code"}
	}
}

// Step is the position in the booking flow. The four steps are strictly
// ordered; the only moves are Next and Prev, so skipping is unrepresentable.
type Step string

const (
	StepDatesAndGuests Step = "dates_and_guests"
	StepReview         Step = "review"
	StepPayment        Step = "payment"
	StepConfirm        Step = "confirm"
)

var stepOrder = []Step{StepDatesAndGuests, StepReview, StepPayment, StepConfirm}

// Number reports the 1-based position shown in the progress bar.
func (s Step) Number() int {
	for i, st := range stepOrder {
		if st == s {
			return i + 1
		}
	}
	return 0
}

func (s Step) Label() string {
	switch s {
	case StepDatesAndGuests:
		return "Dates & Guests"
	case StepReview:
		return "Review"
	case StepPayment:
		return "Payment"
	case StepConfirm:
		return "Confirm"
	default:
		return string(s)
	}
}

// Next returns the following step. ok is false at Confirm, where the
// forward action submits the booking instead of stepping.
func (s Step) Next() (Step, bool) {
	n := s.Number()
	if n == 0 || n >= len(stepOrder) {
		return s, false
	}
	return stepOrder[n], true
}

// Prev returns the preceding step. ok is false at the first step, where
// the backward action leaves the flow for the property page.
func (s Step) Prev() (Step, bool) {
	n := s.Number()
	if n <= 1 {
		return s, false
	}
	return stepOrder[n-2], true
}

// BookingDraft is the in-progress, unsaved set of choices for one booking
// page session. Dates are date-only; times of day are fixed at submission.
type BookingDraft struct {
	PropertyID    int64         `json:"property_id"`
	CheckIn       time.Time     `json:"check_in,omitzero"`
	CheckOut      time.Time     `json:"check_out,omitzero"`
	GuestCount    int           `json:"guest_count"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}

func NewBookingDraft(propertyID int64) BookingDraft {
	return BookingDraft{
		PropertyID:    propertyID,
		GuestCount:    1,
		PaymentMethod: PayOnSite,
	}
}

// IncrementGuests adds a guest up to maxGuests; at the bound it is a no-op.
func (d *BookingDraft) IncrementGuests(maxGuests int) {
	if maxGuests > 0 && d.GuestCount >= maxGuests {
		return
	}
	d.GuestCount++
}

// DecrementGuests removes a guest down to 1; below that it is a no-op.
func (d *BookingDraft) DecrementGuests() {
	if d.GuestCount <= 1 {
		return
	}
	d.GuestCount--
}
