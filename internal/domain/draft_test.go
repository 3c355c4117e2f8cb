package domain

import "testing"

func TestStepForwardReachesConfirmInThreeMoves(t *testing.T) {
	s := StepDatesAndGuests
	for i := 0; i < 3; i++ {
		next, ok := s.Next()
		if !ok {
			t.Fatalf("move %d: forward blocked at %s", i+1, s)
		}
		s = next
	}
	if s != StepConfirm {
		t.Fatalf("after 3 forward moves at %s, want %s", s, StepConfirm)
	}

	// The fourth forward action must hand off to submission, not a 5th step.
	if next, ok := s.Next(); ok {
		t.Fatalf("confirm advanced to %s, want submission hand-off", next)
	}
}

func TestStepBackwardFromFirstExits(t *testing.T) {
	if prev, ok := StepDatesAndGuests.Prev(); ok {
		t.Fatalf("first step stepped back to %s, want flow exit", prev)
	}

	s := StepConfirm
	for _, want := range []Step{StepPayment, StepReview, StepDatesAndGuests} {
		prev, ok := s.Prev()
		if !ok {
			t.Fatalf("backward blocked at %s", s)
		}
		if prev != want {
			t.Fatalf("back from %s = %s, want %s", s, prev, want)
		}
		s = prev
	}
}

func TestStepNumbers(t *testing.T) {
	for i, s := range []Step{StepDatesAndGuests, StepReview, StepPayment, StepConfirm} {
		if s.Number() != i+1 {
			t.Fatalf("%s number = %d, want %d", s, s.Number(), i+1)
		}
	}
}

func TestGuestCountClamped(t *testing.T) {
	d := NewBookingDraft(1)
	if d.GuestCount != 1 {
		t.Fatalf("new draft guest count = %d, want 1", d.GuestCount)
	}

	for i := 0; i < 20; i++ {
		d.DecrementGuests()
	}
	if d.GuestCount != 1 {
		t.Fatalf("guest count after decrements = %d, want 1", d.GuestCount)
	}

	for i := 0; i < 20; i++ {
		d.IncrementGuests(8)
	}
	if d.GuestCount != 8 {
		t.Fatalf("guest count after increments = %d, want 8", d.GuestCount)
	}

	d.DecrementGuests()
	if d.GuestCount != 7 {
		t.Fatalf("guest count = %d, want 7", d.GuestCount)
	}
}

func TestNewBookingDraftDefaultsPayOnSite(t *testing.T) {
	d := NewBookingDraft(42)
	if d.PaymentMethod != PayOnSite {
		t.Fatalf("default payment method = %s, want %s", d.PaymentMethod, PayOnSite)
	}
}

func TestParsePaymentMethod(t *testing.T) {
	if m, err := ParsePaymentMethod("qr_code"); err != nil || m != QRCodePay {
		t.Fatalf("qr_code parse = %v, %v", m, err)
	}
	if m, err := ParsePaymentMethod(" Pay_On_Site "); err != nil || m != PayOnSite {
		t.Fatalf("pay_on_site parse = %v, %v", m, err)
	}
	// Superseded legacy variants are rejected.
	for _, legacy := range []string{"upi_link", "upi_id", "card"} {
		if _, err := ParsePaymentMethod(legacy); !IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", legacy, err)
		}
	}
}
