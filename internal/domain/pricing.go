package domain

import (
	"math"
	"time"
)

const (
	// ServiceFeeRate is the platform service fee applied to the subtotal.
	ServiceFeeRate = 0.12
	// CleaningFee is a flat amount per booking, in the platform currency.
	CleaningFee = 50.0
)

// PricingBreakdown is derived from the draft dates and the nightly rate.
// It is never stored; callers recompute it on every read.
type PricingBreakdown struct {
	Nights      int     `json:"nights"`
	Subtotal    float64 `json:"subtotal"`
	ServiceFee  float64 `json:"service_fee"`
	CleaningFee float64 `json:"cleaning_fee"`
	Total       float64 `json:"total"`
}

// Nights counts billable nights between the two dates, clamped to a
// minimum of 1. Unset dates also count as a single night for display.
// Only the calendar dates matter: a stay is the same number of nights
// whether or not a DST shift makes one of its days 23 or 25 hours long.
func Nights(checkIn, checkOut time.Time) int {
	if checkIn.IsZero() || checkOut.IsZero() {
		return 1
	}
	n := calendarDays(checkIn, checkOut)
	if n < 1 {
		return 1
	}
	return n
}

// calendarDays diffs the two calendar dates in UTC, where every day is
// exactly 24 hours.
func calendarDays(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Ceil(t.Sub(f).Hours() / 24))
}

// Quote prices a stay. It is a pure function of its arguments: the same
// rate and dates always produce an identical breakdown.
func Quote(nightlyRate float64, checkIn, checkOut time.Time) PricingBreakdown {
	nights := Nights(checkIn, checkOut)
	subtotal := nightlyRate * float64(nights)
	serviceFee := subtotal * ServiceFeeRate
	return PricingBreakdown{
		Nights:      nights,
		Subtotal:    subtotal,
		ServiceFee:  serviceFee,
		CleaningFee: CleaningFee,
		Total:       subtotal + serviceFee + CleaningFee,
	}
}
