// Package notify delivers best-effort WhatsApp notifications to customers
// through the Fonnte messaging gateway. Delivery must never block or fail an
// order update, so messages go through an asynchronous dispatcher and errors
// are logged and swallowed.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bilasin/bilasin/internal/domain"
)

// Gateway sends one message to one phone number using the shop's own API
// token. Implementations must honor the context deadline.
type Gateway interface {
	Send(ctx context.Context, phone, message, apiToken string) error
}

// NormalizePhone converts a locally formatted Indonesian number to the
// international format the gateway expects: a leading 0 becomes the 62
// country code, a leading + is stripped, anything else passes through.
func NormalizePhone(phone string) string {
	switch {
	case strings.HasPrefix(phone, "0"):
		return "62" + phone[1:]
	case strings.HasPrefix(phone, "+"):
		return phone[1:]
	default:
		return phone
	}
}

// CompletionMessage renders the WhatsApp text sent when an order is
// completed. laundryName is the shop's display name from settings.
func CompletionMessage(o *domain.Order, laundryName string) string {
	payment := "Belum Bayar ❌"
	if o.PaymentStatus == domain.PaymentPaid {
		payment = "Lunas ✅"
	}

	total := decimal.Zero
	if o.TotalPrice != nil {
		total = *o.TotalPrice
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Halo Kak %s! 👋\n\n", o.CustomerName)
	b.WriteString("Pesanan laundry Anda sudah *SELESAI* ✅\n\n")
	b.WriteString("📋 Detail Pesanan:\n")
	fmt.Fprintf(&b, "🔖 Kode: *%s*\n", o.TrackingCode)
	fmt.Fprintf(&b, "💰 Total: Rp %s\n", formatRupiah(total))
	fmt.Fprintf(&b, "💳 Pembayaran: %s\n\n", payment)
	b.WriteString("Silakan ambil cucian Anda atau tunggu pengiriman.\n")
	fmt.Fprintf(&b, "Terima kasih telah menggunakan layanan *%s*! 🙏", laundryName)
	return b.String()
}

// formatRupiah renders an amount with dots as thousands separators and no
// fraction digits, the customary Indonesian style (38500 -> "38.500").
func formatRupiah(d decimal.Decimal) string {
	s := d.Round(0).String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ".")
	if neg {
		out = "-" + out
	}
	return out
}
