package services

import (
	"strings"
	"text/template"

	"github.com/shopspring/decimal"
)

// Subject is the fixed subject of every booking notification.
const Subject = "Your Car Rental Booking"

// Notification is an enriched booking ready to format.
type Notification struct {
	BookingID string
	Car       CarDetails
	Quantity  int
}

// Total is rate times rental days.
func (n Notification) Total() decimal.Decimal {
	return n.Car.Rate.Mul(decimal.NewFromInt(int64(n.Quantity)))
}

var messageTemplate = template.Must(template.New("booking").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}).Parse(
	`{{.Title}}
Rental Days: {{.Quantity}} - Daily Rate: ${{money .Car.Rate}}/day - Total: ${{money .Total}}
Booking ID: {{.BookingID}}`))

type messageView struct {
	Notification
	Title string
}

// FormatMessage renders the customer-facing message body.
func FormatMessage(n Notification) string {
	title := strings.TrimSpace(n.Car.Make + " " + n.Car.Model)
	title += " (" + n.Car.Year + ")"

	var b strings.Builder
	// Execute only fails on missing fields, and messageView has them all.
	_ = messageTemplate.Execute(&b, messageView{Notification: n, Title: title})
	return b.String()
}
