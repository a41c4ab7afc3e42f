// Package notify sends booking lifecycle emails. Delivery is best effort:
// callers log a failed send and carry on, a booking transition never
// depends on the mail server.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"

	"github.com/envents/envents-server/internal/models"
)

// Notifier is what the booking service depends on.
type Notifier interface {
	BookingStatusChanged(ctx context.Context, to string, booking *models.Booking) error
}

// SMTPConfig carries mail server settings. An empty Host switches the
// mailer into mock mode: messages are logged instead of sent, which keeps
// local development working without a relay.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type Mailer struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

func NewMailer(cfg SMTPConfig, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{cfg: cfg, logger: logger}
}

// subjects is keyed by the status a booking just entered. Anything not
// listed falls through to a generic update subject.
var subjects = map[models.BookingStatus]string{
	models.StatusConfirmed: "Your booking is confirmed!",
	models.StatusQuotation: "Your quotation request was received",
	models.StatusCancelled: "Your booking has been cancelled",
	models.StatusCompleted: "Thanks for booking with us!",
	models.StatusPending:   "Your booking request was received",
}

const genericSubject = "An update on your booking"

// SubjectFor returns the email subject for a booking's new status.
func SubjectFor(status models.BookingStatus) string {
	if s, ok := subjects[status]; ok {
		return s
	}
	return genericSubject
}

var bodyTmpl = template.Must(template.New("booking_status").Funcs(template.FuncMap{
	"deref": func(f *float64) float64 {
		if f == nil {
			return 0
		}
		return *f
	},
}).Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>{{.Heading}}</h2>
  <p>Booking reference: <strong>{{.Booking.Id}}</strong></p>
  {{if .Booking.VenueName}}<p>Venue: {{.Booking.VenueName}}</p>{{end}}
  <p>Event date: {{.Booking.EventDate.Format "Mon, 02 Jan 2006"}}</p>
  {{if .ShowTotal}}<p>Total: {{printf "%.2f" .Booking.TotalCost}}</p>{{end}}
  {{if .Booking.QuotedPrice}}<p>Quoted price: {{printf "%.2f" (deref .Booking.QuotedPrice)}}</p>{{end}}
  {{if .Booking.QuoteMessage}}<p>{{.Booking.QuoteMessage}}</p>{{end}}
  <p>{{.Detail}}</p>
</body>
</html>`))

type bodyData struct {
	Heading   string
	Detail    string
	ShowTotal bool
	Booking   *models.Booking
}

func bodyFor(b *models.Booking) bodyData {
	switch b.Status {
	case models.StatusConfirmed:
		return bodyData{
			Heading:   "Booking confirmed",
			Detail:    "We look forward to hosting your event.",
			ShowTotal: true,
			Booking:   b,
		}
	case models.StatusQuotation:
		return bodyData{
			Heading: "Quotation request received",
			Detail:  "Our team is preparing a quote and will be in touch shortly.",
			Booking: b,
		}
	case models.StatusCancelled:
		return bodyData{
			Heading: "Booking cancelled",
			Detail:  "If this was a mistake, you can place a new booking any time.",
			Booking: b,
		}
	case models.StatusCompleted:
		return bodyData{
			Heading:   "Event completed",
			Detail:    "We hope everything went well. We'd love to host you again.",
			ShowTotal: true,
			Booking:   b,
		}
	case models.StatusPending:
		return bodyData{
			Heading:   "Booking request received",
			Detail:    "We'll confirm availability and get back to you soon.",
			ShowTotal: true,
			Booking:   b,
		}
	default:
		return bodyData{
			Heading: "Booking update",
			Detail:  fmt.Sprintf("Your booking is now %s.", b.Status),
			Booking: b,
		}
	}
}

// RenderBody produces the HTML body for a booking's current status.
func RenderBody(b *models.Booking) (string, error) {
	var buf bytes.Buffer
	if err := bodyTmpl.Execute(&buf, bodyFor(b)); err != nil {
		return "", fmt.Errorf("failed to render email body: %w", err)
	}
	return buf.String(), nil
}

// BookingStatusChanged emails the customer about the booking's new status.
func (m *Mailer) BookingStatusChanged(ctx context.Context, to string, booking *models.Booking) error {
	if to == "" {
		return fmt.Errorf("recipient email is empty")
	}

	subject := SubjectFor(booking.Status)
	html, err := RenderBody(booking)
	if err != nil {
		return err
	}
	text := plainTextFor(booking)

	if m.cfg.Host == "" {
		m.logger.Info("smtp not configured, skipping email send",
			"to", to, "subject", subject, "booking_id", booking.Id)
		return nil
	}

	msg, err := buildMessage(m.cfg.From, to, subject, text, html)
	if err != nil {
		return err
	}

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	m.logger.Info("booking email sent", "to", to, "status", booking.Status, "booking_id", booking.Id)
	return nil
}

func plainTextFor(b *models.Booking) string {
	d := bodyFor(b)
	var sb strings.Builder
	sb.WriteString(d.Heading + "\r\n\r\n")
	sb.WriteString(fmt.Sprintf("Booking reference: %s\r\n", b.Id))
	if b.VenueName != "" {
		sb.WriteString(fmt.Sprintf("Venue: %s\r\n", b.VenueName))
	}
	sb.WriteString(fmt.Sprintf("Event date: %s\r\n", b.EventDate.Format("Mon, 02 Jan 2006")))
	if d.ShowTotal {
		sb.WriteString(fmt.Sprintf("Total: %.2f\r\n", b.TotalCost))
	}
	if b.QuotedPrice != nil {
		sb.WriteString(fmt.Sprintf("Quoted price: %.2f\r\n", *b.QuotedPrice))
	}
	if b.QuoteMessage != "" {
		sb.WriteString(b.QuoteMessage + "\r\n")
	}
	sb.WriteString("\r\n" + d.Detail + "\r\n")
	return sb.String()
}

// buildMessage assembles a multipart/alternative MIME message with plain
// text and HTML parts.
func buildMessage(from, to, subject, text, html string) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: multipart/alternative; boundary=%s\r\n\r\n",
		from, to, subject, w.Boundary())

	textPart, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=UTF-8"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build text part: %w", err)
	}
	if _, err := textPart.Write([]byte(text)); err != nil {
		return nil, fmt.Errorf("failed to write text part: %w", err)
	}

	htmlPart, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=UTF-8"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build html part: %w", err)
	}
	if _, err := htmlPart.Write([]byte(html)); err != nil {
		return nil, fmt.Errorf("failed to write html part: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize message: %w", err)
	}

	return append([]byte(headers), buf.Bytes()...), nil
}
