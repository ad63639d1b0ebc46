// Package settlement renders allocations for people: selection summaries,
// per-viewer settlement views and UPI payment links.
package settlement

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the ISO code used in payment links.
const Currency = "INR"

const currencySymbol = "₹"

// FormatAmount renders a currency amount with two decimals.
func FormatAmount(amount decimal.Decimal) string {
	return currencySymbol + amount.StringFixed(2)
}

// PaymentLink builds a UPI deep link asking the payer to send amount to
// payoutAddress.
func PaymentLink(payoutAddress, payeeName string, amount decimal.Decimal) string {
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&cu=%s",
		payoutAddress,
		strings.ReplaceAll(url.QueryEscape(payeeName), "+", "%20"),
		amount.StringFixed(2),
		Currency,
	)
}
