package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BookingPageSize is the page size for the customer booking list.
const BookingPageSize = 5

// ErrStaleBookingStatus is returned when a compare-and-set status update
// finds the booking no longer in the expected status.
var ErrStaleBookingStatus = errors.New("booking status changed concurrently")

// BookingFilter narrows a booking list. Zero values are ignored.
type BookingFilter struct {
	UserId uuid.UUID
	Status BookingStatus
	Page   int
	Limit  int
}

type BookingRepo interface {
	CreateBooking(ctx context.Context, booking *Booking) error
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]Booking, int64, error)
	ReplaceBooking(ctx context.Context, booking *Booking) error
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, from, to BookingStatus) error
	SetBookingQuote(ctx context.Context, id uuid.UUID, price float64, message string) error
	SetPaymentStatus(ctx context.Context, id uuid.UUID, status PaymentStatus) error
}

func (m *MongodbRepo) CreateBooking(ctx context.Context, booking *Booking) error {
	if booking == nil {
		return fmt.Errorf("booking is nil")
	}

	collection, err := m.GetCollection(ctx, DBName, BookingsColName)
	if err != nil {
		return fmt.Errorf("failed to get bookings collection: %w", err)
	}

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err := collection.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (m *MongodbRepo) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	collection, err := m.GetCollection(ctx, DBName, BookingsColName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings collection: %w", err)
	}

	var booking Booking
	if err := collection.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("booking not found")
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &booking, nil
}

// ListBookings returns a page of bookings ordered by event date (soonest
// first) plus the total match count. Customer lists pass UserId and use the
// fixed page size; admin lists leave UserId zero.
func (m *MongodbRepo) ListBookings(ctx context.Context, filter BookingFilter) ([]Booking, int64, error) {
	collection, err := m.GetCollection(ctx, DBName, BookingsColName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get bookings collection: %w", err)
	}

	query := bson.M{}
	if filter.UserId != uuid.Nil {
		query["user_id"] = filter.UserId
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = BookingPageSize
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "event_date", Value: 1}, {Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, total, nil
}

// ReplaceBooking persists the full booking document. Callers recompute
// costs before calling so the stored totals always match the line items.
func (m *MongodbRepo) ReplaceBooking(ctx context.Context, booking *Booking) error {
	if booking == nil {
		return fmt.Errorf("booking is nil")
	}

	collection, err := m.GetCollection(ctx, DBName, BookingsColName)
	if err != nil {
		return fmt.Errorf("failed to get bookings collection: %w", err)
	}

	booking.UpdatedAt = time.Now()
	res, err := collection.ReplaceOne(ctx, bson.M{"id": booking.Id}, booking)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking not found")
	}
	return nil
}

// UpdateBookingStatus moves a booking from one status to another with a
// compare-and-set on the current status, so two racing transitions cannot
// both win.
func (m *MongodbRepo) UpdateBookingStatus(ctx context.Context, id uuid.UUID, from, to BookingStatus) error {
	collection, err := m.GetCollection(ctx, DBName, BookingsColName)
	if err != nil {
		return fmt.Errorf("failed to get bookings collection: %w", err)
	}

	res, err := collection.UpdateOne(ctx,
		bson.M{"id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrStaleBookingStatus
	}
	return nil
}

// SetBookingQuote records an admin quote on a quotation-stage booking.
func (m *MongodbRepo) SetBookingQuote(ctx context.Context, id uuid.UUID, price float64, message string) error {
	collection, err := m.GetCollection(ctx, DBName, BookingsColName)
	if err != nil {
		return fmt.Errorf("failed to get bookings collection: %w", err)
	}

	res, err := collection.UpdateOne(ctx,
		bson.M{"id": id, "status": StatusQuotation},
		bson.M{"$set": bson.M{
			"quoted_price":  price,
			"quote_message": message,
			"updated_at":    time.Now(),
		}})
	if err != nil {
		return fmt.Errorf("failed to set booking quote: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking not found or not awaiting quotation")
	}
	return nil
}

func (m *MongodbRepo) SetPaymentStatus(ctx context.Context, id uuid.UUID, status PaymentStatus) error {
	collection, err := m.GetCollection(ctx, DBName, BookingsColName)
	if err != nil {
		return fmt.Errorf("failed to get bookings collection: %w", err)
	}

	res, err := collection.UpdateOne(ctx, bson.M{"id": id},
		bson.M{"$set": bson.M{"payment_status": status, "updated_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking not found")
	}
	return nil
}
