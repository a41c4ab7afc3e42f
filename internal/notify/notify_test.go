package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envents/envents-server/internal/models"
)

func sampleBooking(status models.BookingStatus) *models.Booking {
	return &models.Booking{
		Id:        uuid.New(),
		Status:    status,
		VenueName: "Harbour Hall",
		EventDate: time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC),
		TotalCost: 4200,
	}
}

func TestSubjectForKnownStatuses(t *testing.T) {
	assert.Equal(t, "Your booking is confirmed!", SubjectFor(models.StatusConfirmed))
	assert.Equal(t, "Your quotation request was received", SubjectFor(models.StatusQuotation))
	assert.Equal(t, "Your booking has been cancelled", SubjectFor(models.StatusCancelled))
	assert.Equal(t, "Thanks for booking with us!", SubjectFor(models.StatusCompleted))
	assert.Equal(t, "Your booking request was received", SubjectFor(models.StatusPending))
}

func TestSubjectFallsBackForUnknownStatus(t *testing.T) {
	assert.Equal(t, "An update on your booking", SubjectFor(models.BookingStatus("archived")))
}

func TestRenderBodyConfirmed(t *testing.T) {
	body, err := RenderBody(sampleBooking(models.StatusConfirmed))
	require.NoError(t, err)

	assert.Contains(t, body, "Booking confirmed")
	assert.Contains(t, body, "Harbour Hall")
	assert.Contains(t, body, "4200.00")
}

func TestRenderBodyIncludesQuote(t *testing.T) {
	b := sampleBooking(models.StatusQuotation)
	price := 1800.0
	b.QuotedPrice = &price
	b.QuoteMessage = "Includes setup and teardown"

	body, err := RenderBody(b)
	require.NoError(t, err)
	assert.Contains(t, body, "1800.00")
	assert.Contains(t, body, "Includes setup and teardown")
}

func TestRenderBodyUnknownStatusFallsBack(t *testing.T) {
	body, err := RenderBody(sampleBooking(models.BookingStatus("archived")))
	require.NoError(t, err)
	assert.Contains(t, body, "Booking update")
}

func TestPlainTextMirrorsBody(t *testing.T) {
	text := plainTextFor(sampleBooking(models.StatusCompleted))
	assert.True(t, strings.HasPrefix(text, "Event completed"))
	assert.Contains(t, text, "Harbour Hall")
}

func TestMockModeSkipsSend(t *testing.T) {
	m := NewMailer(SMTPConfig{}, nil)
	err := m.BookingStatusChanged(context.Background(), "guest@example.com", sampleBooking(models.StatusConfirmed))
	require.NoError(t, err)
}

func TestEmptyRecipientRejected(t *testing.T) {
	m := NewMailer(SMTPConfig{}, nil)
	err := m.BookingStatusChanged(context.Background(), "", sampleBooking(models.StatusConfirmed))
	require.Error(t, err)
}

func TestBuildMessageMultipart(t *testing.T) {
	msg, err := buildMessage("from@example.com", "to@example.com", "Hello", "plain", "<b>html</b>")
	require.NoError(t, err)

	s := string(msg)
	assert.Contains(t, s, "Subject: Hello")
	assert.Contains(t, s, "multipart/alternative")
	assert.Contains(t, s, "plain")
	assert.Contains(t, s, "<b>html</b>")
}
