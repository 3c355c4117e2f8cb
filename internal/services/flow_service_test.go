package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sadath08/Trivara-room/internal/domain"
	"github.com/Sadath08/Trivara-room/internal/session"
	"github.com/Sadath08/Trivara-room/internal/upstream"

	"github.com/golang-jwt/jwt/v5"
)

// fakePlatform stands in for the Trivara backend: one room, a booking
// endpoint with a scriptable response, and a request counter for the
// no-network assertions.
type fakePlatform struct {
	srv           *httptest.Server
	bookingCalls  atomic.Int64
	bookingStatus int
	bookingBody   string
}

func newFakePlatform(t *testing.T) *fakePlatform {
	t.Helper()
	p := &fakePlatform{
		bookingStatus: http.StatusOK,
		bookingBody:   `{"id":101,"room_id":7,"total_price":3410,"status":"confirmed","payment_status":"pending"}`,
	}
	p.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/rooms/7":
			w.Write([]byte(`{"id":7,"title":"Sea View Suite","location":"Goa","price":1000,"max_guests":4}`))
		case r.Method == http.MethodPost && r.URL.Path == "/bookings":
			p.bookingCalls.Add(1)
			w.WriteHeader(p.bookingStatus)
			w.Write([]byte(p.bookingBody))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"Not Found"}`))
		}
	}))
	t.Cleanup(p.srv.Close)
	return p
}

func (p *fakePlatform) service() *FlowService {
	c := upstream.New(p.srv.URL)
	return NewFlowService(c, c)
}

func validToken(t *testing.T) session.StaticToken {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "guest@example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return session.StaticToken(s)
}

func startedFlow(t *testing.T, svc *FlowService) FlowState {
	t.Helper()
	st, err := svc.Start(context.Background(), 7)
	if err != nil {
		t.Fatalf("start flow: %v", err)
	}
	if st.Step != domain.StepDatesAndGuests {
		t.Fatalf("new flow step = %s", st.Step)
	}
	return st
}

func flowAtConfirm(t *testing.T, svc *FlowService) FlowState {
	t.Helper()
	st := startedFlow(t, svc)
	var err error
	st, err = svc.SetDates(st.ID,
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local),
		time.Date(2025, 6, 4, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("set dates: %v", err)
	}
	for i := 0; i < 3; i++ {
		st, err = svc.Advance(context.Background(), st.ID, nil)
		if err != nil {
			t.Fatalf("advance %d: %v", i+1, err)
		}
	}
	if st.Step != domain.StepConfirm {
		t.Fatalf("step after 3 advances = %s, want confirm", st.Step)
	}
	return st
}

func TestStartSeedsDraftAndPricing(t *testing.T) {
	svc := newFakePlatform(t).service()
	st := startedFlow(t, svc)

	if st.Property.Title != "Sea View Suite" || st.Property.MaxGuests != 4 {
		t.Fatalf("property not seeded: %+v", st.Property)
	}
	if st.Draft == nil || st.Draft.GuestCount != 1 || st.Draft.PaymentMethod != domain.PayOnSite {
		t.Fatalf("draft defaults wrong: %+v", st.Draft)
	}
	// Unset dates price as a single night for display.
	if st.Pricing == nil || st.Pricing.Nights != 1 || st.Pricing.Total != 1000+120+50 {
		t.Fatalf("initial pricing wrong: %+v", st.Pricing)
	}
}

func TestGuestEditsClampToPropertyBounds(t *testing.T) {
	svc := newFakePlatform(t).service()
	st := startedFlow(t, svc)

	var err error
	for i := 0; i < 10; i++ {
		if st, err = svc.IncrementGuests(st.ID); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	if st.Draft.GuestCount != 4 {
		t.Fatalf("guest count = %d, want clamp at max_guests 4", st.Draft.GuestCount)
	}
	for i := 0; i < 10; i++ {
		if st, err = svc.DecrementGuests(st.ID); err != nil {
			t.Fatalf("decrement: %v", err)
		}
	}
	if st.Draft.GuestCount != 1 {
		t.Fatalf("guest count = %d, want clamp at 1", st.Draft.GuestCount)
	}
}

func TestBackFromFirstStepExitsToProperty(t *testing.T) {
	svc := newFakePlatform(t).service()
	st := startedFlow(t, svc)

	st, err := svc.Back(st.ID)
	if err != nil {
		t.Fatalf("back: %v", err)
	}
	if st.ExitTo != "/property/7" {
		t.Fatalf("exit_to = %q, want /property/7", st.ExitTo)
	}
	if st.Step != domain.StepDatesAndGuests {
		t.Fatalf("step changed on exit: %s", st.Step)
	}
}

func TestAdvanceWalksStepsThenSubmits(t *testing.T) {
	p := newFakePlatform(t)
	svc := p.service()
	st := flowAtConfirm(t, svc)

	// The 4th forward action submits rather than stepping.
	st, err := svc.Advance(context.Background(), st.ID, validToken(t))
	if err != nil {
		t.Fatalf("advance at confirm: %v", err)
	}
	if !st.Complete {
		t.Fatalf("flow not complete after submission: %+v", st)
	}
	if got := p.bookingCalls.Load(); got != 1 {
		t.Fatalf("booking calls = %d, want 1", got)
	}
	if st.Confirmation == nil || st.Confirmation.ID != 101 {
		t.Fatalf("confirmation missing: %+v", st.Confirmation)
	}
	if st.Draft != nil {
		t.Fatalf("draft survived completion: %+v", st.Draft)
	}
	if st.Property.Title != "Sea View Suite" {
		t.Fatalf("terminal view lost property title")
	}
}

func TestSubmitWithoutCredentialNeverCallsNetwork(t *testing.T) {
	p := newFakePlatform(t)
	svc := p.service()
	st := flowAtConfirm(t, svc)

	_, err := svc.Submit(context.Background(), st.ID, session.StaticToken(""))
	if !domain.IsUnauthenticated(err) {
		t.Fatalf("expected unauthenticated error, got %v", err)
	}
	if got := p.bookingCalls.Load(); got != 0 {
		t.Fatalf("booking calls = %d, want 0", got)
	}
}

func TestSubmitWithLocallyExpiredTokenRedirects(t *testing.T) {
	p := newFakePlatform(t)
	svc := p.service()
	st := flowAtConfirm(t, svc)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = svc.Submit(context.Background(), st.ID, session.StaticToken(signed))
	if !domain.IsUnauthenticated(err) {
		t.Fatalf("expected unauthenticated error, got %v", err)
	}
	if err.Error() != "Session expired. Please login again." {
		t.Fatalf("message = %q", err.Error())
	}
	if got := p.bookingCalls.Load(); got != 0 {
		t.Fatalf("booking calls = %d, want 0", got)
	}
}

func TestSubmitFailureSurfacesDetailAndStaysOnConfirm(t *testing.T) {
	p := newFakePlatform(t)
	p.bookingStatus = http.StatusBadRequest
	p.bookingBody = `{"detail":"Room not available"}`
	svc := p.service()
	st := flowAtConfirm(t, svc)

	_, err := svc.Submit(context.Background(), st.ID, validToken(t))
	if err == nil || err.Error() != "Room not available" {
		t.Fatalf("error = %v, want verbatim detail", err)
	}

	after, err := svc.Get(st.ID)
	if err != nil {
		t.Fatalf("get after failure: %v", err)
	}
	if after.Step != domain.StepConfirm || after.Complete {
		t.Fatalf("flow moved after failure: %+v", after)
	}

	// Retry is allowed once the collaborator recovers.
	p.bookingStatus = http.StatusOK
	p.bookingBody = `{"id":102,"status":"confirmed"}`
	retried, err := svc.Submit(context.Background(), st.ID, validToken(t))
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !retried.Complete || retried.Confirmation.ID != 102 {
		t.Fatalf("retry did not complete: %+v", retried)
	}
}

func TestSubmitAuthFailureFromUpstreamRedirects(t *testing.T) {
	p := newFakePlatform(t)
	p.bookingStatus = http.StatusUnauthorized
	p.bookingBody = `{"detail":"Could not validate credentials"}`
	svc := p.service()
	st := flowAtConfirm(t, svc)

	_, err := svc.Submit(context.Background(), st.ID, validToken(t))
	if !domain.IsUnauthenticated(err) {
		t.Fatalf("expected unauthenticated error, got %v", err)
	}
}

func TestSubmitSuppressedWhileInFlight(t *testing.T) {
	p := newFakePlatform(t)
	svc := p.service()
	st := flowAtConfirm(t, svc)

	f, err := svc.lookup(st.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	f.mu.Lock()
	f.submitting = true
	f.mu.Unlock()

	if _, err := svc.Submit(context.Background(), st.ID, validToken(t)); err != ErrSubmitInFlight {
		t.Fatalf("error = %v, want ErrSubmitInFlight", err)
	}
	if got := p.bookingCalls.Load(); got != 0 {
		t.Fatalf("booking calls = %d, want 0 while in flight", got)
	}
}

func TestSubmitRequiresConfirmStep(t *testing.T) {
	p := newFakePlatform(t)
	svc := p.service()
	st := startedFlow(t, svc)

	_, err := svc.Submit(context.Background(), st.ID, validToken(t))
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := p.bookingCalls.Load(); got != 0 {
		t.Fatalf("booking calls = %d, want 0", got)
	}
}

func TestSubmitRejectsUnsetDates(t *testing.T) {
	p := newFakePlatform(t)
	svc := p.service()
	st := startedFlow(t, svc)

	var err error
	for i := 0; i < 3; i++ {
		if st, err = svc.Advance(context.Background(), st.ID, nil); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}

	_, err = svc.Submit(context.Background(), st.ID, validToken(t))
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for unset dates, got %v", err)
	}
	if got := p.bookingCalls.Load(); got != 0 {
		t.Fatalf("booking calls = %d, want 0", got)
	}
}

func TestCompletedFlowIsTerminal(t *testing.T) {
	p := newFakePlatform(t)
	svc := p.service()
	st := flowAtConfirm(t, svc)

	st, err := svc.Submit(context.Background(), st.ID, validToken(t))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Back navigation does not leave the terminal view.
	back, err := svc.Back(st.ID)
	if err != nil {
		t.Fatalf("back after completion: %v", err)
	}
	if !back.Complete {
		t.Fatalf("terminal view re-entered the flow: %+v", back)
	}

	// Re-submission does not create a second booking.
	again, err := svc.Submit(context.Background(), st.ID, validToken(t))
	if err != nil {
		t.Fatalf("submit after completion: %v", err)
	}
	if !again.Complete || p.bookingCalls.Load() != 1 {
		t.Fatalf("duplicate submission after completion: calls=%d", p.bookingCalls.Load())
	}

	// Field edits are rejected once terminal.
	if _, err := svc.IncrementGuests(st.ID); !domain.IsValidation(err) {
		t.Fatalf("edit after completion: %v", err)
	}
}

func TestReceiptAvailableAfterCompletion(t *testing.T) {
	p := newFakePlatform(t)
	svc := p.service()
	st := flowAtConfirm(t, svc)

	if _, err := svc.Receipt(st.ID); !domain.IsValidation(err) {
		t.Fatalf("receipt before completion: %v", err)
	}

	if _, err := svc.Submit(context.Background(), st.ID, validToken(t)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	data, err := svc.Receipt(st.ID)
	if err != nil {
		t.Fatalf("receipt: %v", err)
	}
	if data.BookingID != 101 || data.PropertyTitle != "Sea View Suite" {
		t.Fatalf("receipt data wrong: %+v", data)
	}
	if data.Pricing.Nights != 3 || data.Pricing.Total != 3410 {
		t.Fatalf("receipt pricing wrong: %+v", data.Pricing)
	}
}

func TestDiscardForgetsFlow(t *testing.T) {
	svc := newFakePlatform(t).service()
	st := startedFlow(t, svc)

	svc.Discard(st.ID)
	if _, err := svc.Get(st.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected not found after discard, got %v", err)
	}
}

func TestStartUnknownPropertyNotFound(t *testing.T) {
	svc := newFakePlatform(t).service()
	if _, err := svc.Start(context.Background(), 999); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// Guard against accidental schema drift in the state JSON the UI reads.
func TestFlowStateJSONShape(t *testing.T) {
	svc := newFakePlatform(t).service()
	st := startedFlow(t, svc)

	raw, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	for _, key := range []string{"id", "property", "step", "step_number", "draft", "pricing"} {
		if _, ok := m[key]; !ok {
			t.Fatalf("state JSON missing %q: %s", key, raw)
		}
	}
	if _, ok := m["confirmation"]; ok {
		t.Fatalf("incomplete flow exposes confirmation")
	}
}
