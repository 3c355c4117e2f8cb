package utils

import "fmt"

// FormatMoney keeps consistent two-decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatINR renders an amount with the currency code, for surfaces that
// cannot carry the rupee glyph (PDF base fonts).
func FormatINR(amount float64) string {
	return "INR " + FormatMoney(amount)
}
