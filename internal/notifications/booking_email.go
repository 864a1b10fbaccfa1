package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"shelby-backend/internal/models"
)

const bookingConfirmedTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hi {{.Name}},</p>
  <p>Your detailing appointment is confirmed:</p>
  <ul>
    <li>Date: {{.Date}}</li>
    <li>Time: {{.Time}}</li>
    <li>Services: {{.Services}}</li>
    <li>Total: ${{.Total}}</li>
    <li>Booking number: {{.BookingID}}</li>
  </ul>
  <p>Our team will arrive at {{.Address}}. Please make sure the vehicle is accessible.</p>
  <p>Shelby Auto Detailing</p>
</body>
</html>`

const bookingRejectedTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hi {{.Name}},</p>
  <p>Unfortunately we could not accept your booking for {{.Date}} at {{.Time}}.</p>
  <p>Reason: {{.Reason}}</p>
  <p>You are welcome to pick another time slot in the app.</p>
  <p>Shelby Auto Detailing</p>
</body>
</html>`

var (
	bookingConfirmedTmpl = template.Must(template.New("booking_confirmed").Parse(bookingConfirmedTemplate))
	bookingRejectedTmpl  = template.Must(template.New("booking_rejected").Parse(bookingRejectedTemplate))
)

type bookingEmailData struct {
	Name      string
	Date      string
	Time      string
	Services  string
	Total     string
	BookingID string
	Address   string
	Reason    string
}

// SendBookingStatusEmail emails the booking owner after an admin decision.
func (c *BrevoClient) SendBookingStatusEmail(ctx context.Context, booking models.Booking) (string, error) {
	data := bookingEmailData{
		Name:      booking.CustomerName,
		Date:      booking.Date,
		Time:      booking.Time,
		Services:  joinComma(booking.Services),
		Total:     fmt.Sprintf("%.2f", booking.Total),
		BookingID: booking.ID,
		Address:   booking.Address,
		Reason:    booking.RejectionReason,
	}

	var (
		tmpl    *template.Template
		subject string
	)
	switch booking.Status {
	case models.BookingStatusConfirmed:
		tmpl = bookingConfirmedTmpl
		subject = "Your booking is confirmed"
	case models.BookingStatusRejected:
		tmpl = bookingRejectedTmpl
		subject = "Your booking was declined"
	default:
		return "", fmt.Errorf("no email for booking status %q", booking.Status)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return c.sendHTML(ctx, booking.Email, booking.CustomerName, subject, buf.String())
}

func joinComma(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += item
	}
	return out
}
