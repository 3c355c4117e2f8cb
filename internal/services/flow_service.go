package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Sadath08/Trivara-room/internal/domain"
	"github.com/Sadath08/Trivara-room/internal/session"
	"github.com/Sadath08/Trivara-room/internal/upstream"
	"github.com/Sadath08/Trivara-room/internal/utils"

	"github.com/google/uuid"
)

// ErrSubmitInFlight rejects a duplicate submission while one is pending.
var ErrSubmitInFlight = errors.New("submission already in progress")

// RoomFetcher and BookingCreator are the collaborator endpoints the flow
// consumes; *upstream.Client satisfies both.
type RoomFetcher interface {
	GetRoom(ctx context.Context, id int64) (domain.Property, error)
}

type BookingCreator interface {
	CreateBooking(ctx context.Context, token string, req upstream.BookingRequest) (upstream.BookingConfirmation, error)
}

// bookingFlow is one booking-page session: the draft, its step, and the
// terminal completion state. All access goes through the flow mutex.
type bookingFlow struct {
	mu           sync.Mutex
	id           string
	property     domain.Property
	draft        domain.BookingDraft
	step         domain.Step
	submitting   bool
	complete     bool
	confirmation upstream.BookingConfirmation
	receipt      ReceiptData
}

// FlowState is the read model handed to the HTTP layer. Pricing is
// recomputed from the draft on every snapshot, never stored.
type FlowState struct {
	ID           string                        `json:"id"`
	Property     domain.Property               `json:"property"`
	Step         domain.Step                   `json:"step,omitempty"`
	StepNumber   int                           `json:"step_number,omitempty"`
	StepLabel    string                        `json:"step_label,omitempty"`
	Draft        *domain.BookingDraft          `json:"draft,omitempty"`
	Pricing      *domain.PricingBreakdown      `json:"pricing,omitempty"`
	Complete     bool                          `json:"complete"`
	Confirmation *upstream.BookingConfirmation `json:"confirmation,omitempty"`
	ExitTo       string                        `json:"exit_to,omitempty"`
}

type FlowService struct {
	Rooms    RoomFetcher
	Bookings BookingCreator

	mu    sync.RWMutex
	flows map[string]*bookingFlow
}

func NewFlowService(rooms RoomFetcher, bookings BookingCreator) *FlowService {
	return &FlowService{
		Rooms:    rooms,
		Bookings: bookings,
		flows:    make(map[string]*bookingFlow),
	}
}

// Start fetches the property and opens a new flow at the first step.
func (s *FlowService) Start(ctx context.Context, propertyID int64) (FlowState, error) {
	property, err := s.Rooms.GetRoom(ctx, propertyID)
	if err != nil {
		return FlowState{}, err
	}

	f := &bookingFlow{
		id:       uuid.NewString(),
		property: property,
		draft:    domain.NewBookingDraft(property.ID),
		step:     domain.StepDatesAndGuests,
	}

	s.mu.Lock()
	s.flows[f.id] = f
	s.mu.Unlock()

	utils.LogEvent("", "flow", "start", fmt.Sprintf("flow_id=%s property_id=%d", f.id, property.ID))
	return f.snapshot(), nil
}

// Get returns the current state of a flow.
func (s *FlowService) Get(id string) (FlowState, error) {
	f, err := s.lookup(id)
	if err != nil {
		return FlowState{}, err
	}
	return f.snapshot(), nil
}

// Discard drops a flow, the analog of leaving the booking page.
func (s *FlowService) Discard(id string) {
	s.mu.Lock()
	delete(s.flows, id)
	s.mu.Unlock()
}

// SetDates records the chosen calendar dates. Completeness is not
// enforced here; submission is the only gate.
func (s *FlowService) SetDates(id string, checkIn, checkOut time.Time) (FlowState, error) {
	return s.edit(id, func(f *bookingFlow) error {
		f.draft.CheckIn = checkIn
		f.draft.CheckOut = checkOut
		return nil
	})
}

func (s *FlowService) IncrementGuests(id string) (FlowState, error) {
	return s.edit(id, func(f *bookingFlow) error {
		f.draft.IncrementGuests(f.property.MaxGuests)
		return nil
	})
}

func (s *FlowService) DecrementGuests(id string) (FlowState, error) {
	return s.edit(id, func(f *bookingFlow) error {
		f.draft.DecrementGuests()
		return nil
	})
}

// SelectPaymentMethod is idempotent; reselecting the active method is a
// no-op.
func (s *FlowService) SelectPaymentMethod(id string, method domain.PaymentMethod) (FlowState, error) {
	return s.edit(id, func(f *bookingFlow) error {
		f.draft.PaymentMethod = method
		return nil
	})
}

// Advance moves the flow forward one step. At Confirm the forward action
// submits the booking instead of stepping.
func (s *FlowService) Advance(ctx context.Context, id string, creds session.TokenProvider) (FlowState, error) {
	f, err := s.lookup(id)
	if err != nil {
		return FlowState{}, err
	}

	f.mu.Lock()
	if f.complete {
		st := f.snapshotLocked()
		f.mu.Unlock()
		return st, nil
	}
	if next, ok := f.step.Next(); ok {
		f.step = next
		st := f.snapshotLocked()
		f.mu.Unlock()
		return st, nil
	}
	f.mu.Unlock()

	return s.Submit(ctx, id, creds)
}

// Back moves the flow one step back. From the first step it exits the
// flow entirely, pointing the caller at the property page.
func (s *FlowService) Back(id string) (FlowState, error) {
	f, err := s.lookup(id)
	if err != nil {
		return FlowState{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.complete {
		// The terminal view is not re-enterable.
		return f.snapshotLocked(), nil
	}
	if prev, ok := f.step.Prev(); ok {
		f.step = prev
		return f.snapshotLocked(), nil
	}

	st := f.snapshotLocked()
	st.ExitTo = fmt.Sprintf("/property/%d", f.property.ID)
	return st, nil
}

// Submit sends the booking to the platform. Preconditions: the flow is at
// Confirm, a credential is present and not stale, and no submission is
// already pending. Failures leave the step at Confirm so the user can
// retry or go back.
func (s *FlowService) Submit(ctx context.Context, id string, creds session.TokenProvider) (FlowState, error) {
	f, err := s.lookup(id)
	if err != nil {
		return FlowState{}, err
	}

	f.mu.Lock()
	if f.complete {
		st := f.snapshotLocked()
		f.mu.Unlock()
		return st, nil
	}
	if f.step != domain.StepConfirm {
		f.mu.Unlock()
		return FlowState{}, domain.ValidationError{Field: "step", Msg: "submission is only available at the confirm step"}
	}
	if f.submitting {
		f.mu.Unlock()
		return FlowState{}, ErrSubmitInFlight
	}

	token := ""
	if creds != nil {
		token = strings.TrimSpace(creds.Token())
	}
	if token == "" {
		f.mu.Unlock()
		return FlowState{}, domain.UnauthenticatedError{}
	}
	if session.Expired(token, time.Now()) {
		f.mu.Unlock()
		return FlowState{}, domain.UnauthenticatedError{Expired: true}
	}
	if f.draft.CheckIn.IsZero() || f.draft.CheckOut.IsZero() {
		f.mu.Unlock()
		return FlowState{}, domain.ValidationError{Field: "dates", Msg: "check-in and check-out are required"}
	}

	req := upstream.NewBookingRequest(f.draft)
	f.submitting = true
	f.mu.Unlock()

	conf, err := s.Bookings.CreateBooking(ctx, token, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false

	if err != nil {
		utils.LogEvent("", "flow", "submit_failed", fmt.Sprintf("flow_id=%s err=%v", f.id, err))
		if domain.IsUnauthenticated(err) || domain.IsUpstream(err) {
			return FlowState{}, err
		}
		// Transport or unexpected failure: generic message, original text appended.
		return FlowState{}, domain.UpstreamError{Detail: fmt.Sprintf("Booking failed: %v", err), Err: err}
	}

	f.complete = true
	f.confirmation = conf
	f.receipt = ReceiptData{
		BookingID:     conf.ID,
		PropertyTitle: f.property.Title,
		Location:      f.property.Location,
		CheckIn:       f.draft.CheckIn,
		CheckOut:      f.draft.CheckOut,
		Guests:        f.draft.GuestCount,
		PaymentMethod: f.draft.PaymentMethod,
		PaymentStatus: conf.PaymentStatus,
		Pricing:       domain.Quote(f.property.NightlyRate, f.draft.CheckIn, f.draft.CheckOut),
	}
	// The draft is discarded; the terminal view references the title only.
	f.draft = domain.BookingDraft{}

	utils.LogEvent("", "flow", "submit_ok", fmt.Sprintf("flow_id=%s booking_id=%d", f.id, conf.ID))
	return f.snapshotLocked(), nil
}

// Receipt returns the confirmation receipt data for a completed flow.
func (s *FlowService) Receipt(id string) (ReceiptData, error) {
	f, err := s.lookup(id)
	if err != nil {
		return ReceiptData{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.complete {
		return ReceiptData{}, domain.ValidationError{Field: "flow", Msg: "receipt is available after the booking is confirmed"}
	}
	return f.receipt, nil
}

func (s *FlowService) lookup(id string) (*bookingFlow, error) {
	s.mu.RLock()
	f, ok := s.flows[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.NotFoundError{Resource: "booking flow"}
	}
	return f, nil
}

func (s *FlowService) edit(id string, fn func(*bookingFlow) error) (FlowState, error) {
	f, err := s.lookup(id)
	if err != nil {
		return FlowState{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.complete {
		return FlowState{}, domain.ValidationError{Field: "flow", Msg: "booking is already complete"}
	}
	if err := fn(f); err != nil {
		return FlowState{}, err
	}
	return f.snapshotLocked(), nil
}

func (f *bookingFlow) snapshot() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *bookingFlow) snapshotLocked() FlowState {
	st := FlowState{
		ID:       f.id,
		Property: f.property,
		Complete: f.complete,
	}
	if f.complete {
		conf := f.confirmation
		st.Confirmation = &conf
		return st
	}

	draft := f.draft
	pricing := domain.Quote(f.property.NightlyRate, draft.CheckIn, draft.CheckOut)
	st.Step = f.step
	st.StepNumber = f.step.Number()
	st.StepLabel = f.step.Label()
	st.Draft = &draft
	st.Pricing = &pricing
	return st
}
