package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/Sadath08/Trivara-room/internal/domain"
	"github.com/Sadath08/Trivara-room/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// ReceiptData is everything the confirmation receipt shows. The flow
// fills it from the confirmed booking and the final pricing quote.
type ReceiptData struct {
	BookingID     int64
	PropertyTitle string
	Location      string
	CheckIn       time.Time
	CheckOut      time.Time
	Guests        int
	PaymentMethod domain.PaymentMethod
	PaymentStatus string
	Pricing       domain.PricingBreakdown
}

type ReceiptService struct{}

// BuildReceipt renders the booking confirmation PDF and suggests a
// download filename.
func (ReceiptService) BuildReceipt(d ReceiptData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Receipt", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking Ref    : TRV-%d", d.BookingID),
		fmt.Sprintf("Property       : %s", safe(d.PropertyTitle, "-")),
		fmt.Sprintf("Location       : %s", safe(d.Location, "-")),
		fmt.Sprintf("Check-in       : %s 14:00", utils.FormatDate(d.CheckIn)),
		fmt.Sprintf("Check-out      : %s 11:00", utils.FormatDate(d.CheckOut)),
		fmt.Sprintf("Guests         : %d", d.Guests),
		fmt.Sprintf("Payment        : %s", paymentLabel(d.PaymentMethod)),
		fmt.Sprintf("Payment Status : %s", safe(d.PaymentStatus, "pending")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Price Breakdown")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	nightWord := "nights"
	if d.Pricing.Nights == 1 {
		nightWord = "night"
	}
	rows := []string{
		fmt.Sprintf("%d %s         : %s", d.Pricing.Nights, nightWord, utils.FormatINR(d.Pricing.Subtotal)),
		fmt.Sprintf("Service fee     : %s", utils.FormatINR(d.Pricing.ServiceFee)),
		fmt.Sprintf("Cleaning fee    : %s", utils.FormatINR(d.Pricing.CleaningFee)),
		fmt.Sprintf("Total           : %s", utils.FormatINR(d.Pricing.Total)),
	}
	for _, row := range rows {
		pdf.Cell(0, 7, row)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Note: pay-on-site bookings are settled at arrival. Please carry a valid ID matching the booking name.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "render receipt", Err: err}
	}

	filename := fmt.Sprintf("RECEIPT_TRV-%d_%s.pdf", d.BookingID, safeFilenamePart(d.PropertyTitle))
	return buf.Bytes(), filename, nil
}

func paymentLabel(m domain.PaymentMethod) string {
	switch m {
	case domain.QRCodePay:
		return "UPI QR Code"
	case domain.PayOnSite:
		return "Pay on Site"
	default:
		return string(m)
	}
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "booking"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-")
	return replacer.Replace(s)
}
