package handlers

import (
	"net/http"

	"github.com/Sadath08/Trivara-room/internal/domain"
	"github.com/Sadath08/Trivara-room/internal/services"
	"github.com/Sadath08/Trivara-room/internal/session"
	"github.com/Sadath08/Trivara-room/internal/utils"

	"github.com/gin-gonic/gin"
)

// FlowHandler exposes the booking flow over HTTP. Each request carries
// the browser's bearer token; the handler never stores credentials.
type FlowHandler struct {
	Flows    *services.FlowService
	Payments services.PaymentService
	Receipts services.ReceiptService
}

type startFlowRequest struct {
	PropertyID int64 `json:"property_id"`
}

// POST /api/flows
func (h FlowHandler) Start(c *gin.Context) {
	var req startFlowRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.PropertyID <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "property_id is required", nil)
		return
	}

	st, err := h.Flows.Start(c.Request.Context(), req.PropertyID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

// GET /api/flows/:id
func (h FlowHandler) Get(c *gin.Context) {
	st, err := h.Flows.Get(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// DELETE /api/flows/:id
func (h FlowHandler) Discard(c *gin.Context) {
	h.Flows.Discard(c.Param("id"))
	c.Status(http.StatusNoContent)
}

type setDatesRequest struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

// PUT /api/flows/:id/dates
func (h FlowHandler) SetDates(c *gin.Context) {
	var req setDatesRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	checkIn, err := utils.ParseDate(req.CheckIn)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "check_in: must be a YYYY-MM-DD date", nil)
		return
	}
	checkOut, err := utils.ParseDate(req.CheckOut)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "check_out: must be a YYYY-MM-DD date", nil)
		return
	}

	st, err := h.Flows.SetDates(c.Param("id"), checkIn, checkOut)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// POST /api/flows/:id/guests/increment
func (h FlowHandler) IncrementGuests(c *gin.Context) {
	st, err := h.Flows.IncrementGuests(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// POST /api/flows/:id/guests/decrement
func (h FlowHandler) DecrementGuests(c *gin.Context) {
	st, err := h.Flows.DecrementGuests(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

type paymentMethodRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// PUT /api/flows/:id/payment-method
func (h FlowHandler) SelectPaymentMethod(c *gin.Context) {
	var req paymentMethodRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	st, err := h.Flows.SelectPaymentMethod(c.Param("id"), method)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// POST /api/flows/:id/advance
func (h FlowHandler) Advance(c *gin.Context) {
	st, err := h.Flows.Advance(c.Request.Context(), c.Param("id"), session.FromRequest(c.Request))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// POST /api/flows/:id/back
func (h FlowHandler) Back(c *gin.Context) {
	st, err := h.Flows.Back(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// POST /api/flows/:id/submit
func (h FlowHandler) Submit(c *gin.Context) {
	st, err := h.Flows.Submit(c.Request.Context(), c.Param("id"), session.FromRequest(c.Request))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// GET /api/flows/:id/payment-qr
func (h FlowHandler) PaymentQR(c *gin.Context) {
	st, err := h.Flows.Get(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if st.Complete || st.Draft == nil || st.Draft.PaymentMethod != domain.QRCodePay {
		RespondDomainError(c, domain.ValidationError{Field: "payment_method", Msg: "QR payload is only rendered for qr_code payments"})
		return
	}

	png, err := h.Payments.QRPNG(st.Pricing.Total, st.Property.Title)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GET /api/flows/:id/receipt
func (h FlowHandler) Receipt(c *gin.Context) {
	data, err := h.Flows.Receipt(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	pdf, filename, err := h.Receipts.BuildReceipt(data)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
