package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusQuotation BookingStatus = "quotation"
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// allowedTransitions encodes the booking state machine. Cancelled and
// completed are terminal.
var allowedTransitions = map[BookingStatus]map[BookingStatus]bool{
	StatusQuotation: {
		StatusPending:   true,
		StatusCancelled: true,
	},
	StatusPending: {
		StatusConfirmed: true,
		StatusCancelled: true,
	},
	StatusConfirmed: {
		StatusCompleted: true,
		StatusCancelled: true,
	},
	StatusCancelled: {},
	StatusCompleted: {},
}

// CanTransition reports whether moving from one status to another is legal.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	return allowedTransitions[s][to]
}

// IsTerminal reports whether no further transitions are possible.
func (s BookingStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// ParseBookingStatus normalizes a client-supplied status string.
func ParseBookingStatus(raw string) (BookingStatus, error) {
	s := BookingStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusQuotation, StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return s, nil
	}
	return "", fmt.Errorf("unknown booking status: %q", raw)
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	s := PaymentStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case PaymentUnpaid, PaymentPartial, PaymentPaid, PaymentRefunded:
		return s, nil
	}
	return "", fmt.Errorf("unknown payment status: %q", raw)
}

// BookingType distinguishes venue bookings from service-only bookings,
// which never carry a venue cost.
type BookingType string

const (
	BookingVenue       BookingType = "venue"
	BookingServiceOnly BookingType = "service_only"
)

// ServiceLine is one booked service with the price fields snapshotted at
// the moment it was added, so later listing edits never move a quote.
type ServiceLine struct {
	ServiceID           uuid.UUID   `bson:"service_id" json:"service_id"`
	ServiceName         string      `bson:"service_name" json:"service_name"`
	Category            string      `bson:"category,omitempty" json:"category,omitempty"`
	PricingType         PricingType `bson:"pricing_type" json:"pricing_type"`
	PackageID           *uuid.UUID  `bson:"package_id,omitempty" json:"package_id,omitempty"`
	PackageName         string      `bson:"package_name,omitempty" json:"package_name,omitempty"`
	Quantity            float64     `bson:"quantity" json:"quantity"`
	UnitPrice           float64     `bson:"unit_price" json:"unit_price"`
	SpecialRequirements string      `bson:"special_requirements,omitempty" json:"special_requirements,omitempty"`
	AddedAt             time.Time   `bson:"added_at" json:"added_at"`
}

// Cost resolves the line's cost from the snapshotted pricing: hourly lines
// multiply by quantity, flat lines charge the unit price once.
func (l ServiceLine) Cost() float64 {
	if l.PricingType == PricingHourly {
		return l.UnitPrice * l.Quantity
	}
	return l.UnitPrice
}

// VenueCateringSelection snapshots a venue catering package chosen for a
// booking, priced per serving.
type VenueCateringSelection struct {
	PackageID   uuid.UUID `bson:"package_id" json:"package_id"`
	PackageName string    `bson:"package_name" json:"package_name"`
	UnitPrice   float64   `bson:"unit_price" json:"unit_price"`
	Servings    int       `bson:"servings" json:"servings"`
}

func (c VenueCateringSelection) Cost() float64 {
	return c.UnitPrice * float64(c.Servings)
}

type Booking struct {
	Id     uuid.UUID   `bson:"id" json:"id"`
	UserId uuid.UUID   `bson:"user_id" json:"user_id"`
	Type   BookingType `bson:"type" json:"type"`

	// CUSTOMER CONTACT, denormalized so notifications never need an
	// auth-store lookup.
	CustomerName  string `bson:"customer_name,omitempty" json:"customer_name,omitempty"`
	CustomerEmail string `bson:"customer_email,omitempty" json:"customer_email,omitempty"`

	// VENUE (nil fields for service_only bookings)
	VenueId        *uuid.UUID  `bson:"venue_id,omitempty" json:"venue_id,omitempty"`
	VenueName      string      `bson:"venue_name,omitempty" json:"venue_name,omitempty"`
	VenuePricing   PricingType `bson:"venue_pricing,omitempty" json:"venue_pricing,omitempty"`
	VenueUnitPrice float64     `bson:"venue_unit_price,omitempty" json:"venue_unit_price,omitempty"`

	// EVENT
	EventDate       time.Time `bson:"event_date" json:"event_date"`
	EventType       string    `bson:"event_type,omitempty" json:"event_type,omitempty"`
	StartTime       time.Time `bson:"start_time" json:"start_time"`
	EndTime         time.Time `bson:"end_time" json:"end_time"`
	GuestCount      int       `bson:"guest_count,omitempty" json:"guest_count,omitempty"`
	ContactPhone    string    `bson:"contact_phone,omitempty" json:"contact_phone,omitempty"`
	SpecialRequests string    `bson:"special_requests,omitempty" json:"special_requests,omitempty"`

	// SERVICES, keyed by service id so a service appears at most once.
	Services map[string]ServiceLine `bson:"services,omitempty" json:"services,omitempty"`

	// VENUE CATERING
	VenueCatering *VenueCateringSelection `bson:"venue_catering,omitempty" json:"venue_catering,omitempty"`

	// COSTS, recomputed as a whole on every change.
	VenueCost         float64 `bson:"venue_cost" json:"venue_cost"`
	ServicesCost      float64 `bson:"services_cost" json:"services_cost"`
	VenueCateringCost float64 `bson:"venue_catering_cost" json:"venue_catering_cost"`
	TotalCost         float64 `bson:"total_cost" json:"total_cost"`

	// QUOTATION
	QuotedPrice   *float64 `bson:"quoted_price,omitempty" json:"quoted_price,omitempty"`
	QuoteMessage  string   `bson:"quote_message,omitempty" json:"quote_message,omitempty"`

	Status        BookingStatus `bson:"status" json:"status"`
	PaymentStatus PaymentStatus `bson:"payment_status" json:"payment_status"`
	CreatedAt     time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updated_at"`
}

// DaysRemaining counts whole days from now until the event date; past
// events report zero.
func (b *Booking) DaysRemaining(now time.Time) int {
	d := b.EventDate.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

// DurationHours is the booked span in hours, fractional values included.
func (b *Booking) DurationHours() float64 {
	d := b.EndTime.Sub(b.StartTime)
	if d <= 0 {
		return 0
	}
	return d.Hours()
}

// ServicesEditable reports whether line items may still change.
func (b *Booking) ServicesEditable() bool {
	return b.Status == StatusQuotation || b.Status == StatusPending
}

// RecomputeCosts rebuilds every cost field from the snapshots currently on
// the booking. It is idempotent: calling it twice yields the same totals.
func (b *Booking) RecomputeCosts() {
	if b.Type == BookingServiceOnly || b.VenueId == nil {
		b.VenueCost = 0
	} else if b.VenuePricing == PricingHourly {
		b.VenueCost = b.VenueUnitPrice * b.DurationHours()
	} else {
		b.VenueCost = b.VenueUnitPrice
	}

	b.ServicesCost = 0
	for _, line := range b.Services {
		b.ServicesCost += line.Cost()
	}

	if b.VenueCatering != nil {
		b.VenueCateringCost = b.VenueCatering.Cost()
	} else {
		b.VenueCateringCost = 0
	}

	b.TotalCost = b.VenueCost + b.ServicesCost + b.VenueCateringCost
}

// HasCateringService reports whether any line item belongs to the catering
// category, which conflicts with a venue catering selection.
func (b *Booking) HasCateringService() bool {
	for _, line := range b.Services {
		if strings.EqualFold(line.Category, CategoryCatering) {
			return true
		}
	}
	return false
}
