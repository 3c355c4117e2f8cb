package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Sadath08/Trivara-room/internal/domain"
	"github.com/Sadath08/Trivara-room/internal/utils"

	qrcode "github.com/skip2/go-qrcode"
)

// PaymentService builds the scannable UPI payload for qr_code payments.
// The payload is generated locally from the draft total and property
// title; it never travels to any endpoint.
type PaymentService struct {
	PayeeID   string
	PayeeName string
}

// UPIString renders the standard UPI deep link for the given total. The
// output is deterministic: the same total and title always produce the
// same payload.
func (p PaymentService) UPIString(total float64, propertyTitle string) string {
	note := "Booking for " + propertyTitle
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&cu=INR&tn=%s",
		p.PayeeID,
		escapeComponent(p.PayeeName),
		utils.FormatMoney(total),
		escapeComponent(note),
	)
}

// QRPNG encodes the UPI payload as a scannable PNG.
func (p PaymentService) QRPNG(total float64, propertyTitle string) ([]byte, error) {
	png, err := qrcode.Encode(p.UPIString(total, propertyTitle), qrcode.Medium, 256)
	if err != nil {
		return nil, domain.InternalError{Msg: "encode payment QR", Err: err}
	}
	return png, nil
}

// escapeComponent matches JS encodeURIComponent for the characters that
// matter here: spaces become %20, not +.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
