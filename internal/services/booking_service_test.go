package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envents/envents-server/internal/models"
)

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[uuid.UUID]*models.Booking{}}
}

func (f *fakeBookingRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	cp := *b
	f.bookings[b.Id] = &cp
	return nil
}

func (f *fakeBookingRepo) GetBookingByID(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking not found")
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) ListBookings(_ context.Context, filter models.BookingFilter) ([]models.Booking, int64, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if filter.UserId != uuid.Nil && b.UserId != filter.UserId {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (f *fakeBookingRepo) ReplaceBooking(_ context.Context, b *models.Booking) error {
	if _, ok := f.bookings[b.Id]; !ok {
		return fmt.Errorf("booking not found")
	}
	cp := *b
	f.bookings[b.Id] = &cp
	return nil
}

func (f *fakeBookingRepo) UpdateBookingStatus(_ context.Context, id uuid.UUID, from, to models.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return models.ErrStaleBookingStatus
	}
	b.Status = to
	return nil
}

func (f *fakeBookingRepo) SetBookingQuote(_ context.Context, id uuid.UUID, price float64, message string) error {
	b, ok := f.bookings[id]
	if !ok || b.Status != models.StatusQuotation {
		return fmt.Errorf("booking not found or not awaiting quotation")
	}
	b.QuotedPrice = &price
	b.QuoteMessage = message
	return nil
}

func (f *fakeBookingRepo) SetPaymentStatus(_ context.Context, id uuid.UUID, status models.PaymentStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return fmt.Errorf("booking not found")
	}
	b.PaymentStatus = status
	return nil
}

// Only the lookup methods matter for booking tests; the embedded interface
// panics if anything else is called.
type fakeVenueRepo struct {
	models.VenueRepo
	venues map[uuid.UUID]*models.Venue
}

func (f *fakeVenueRepo) GetVenueByID(_ context.Context, id uuid.UUID) (*models.Venue, error) {
	v, ok := f.venues[id]
	if !ok {
		return nil, fmt.Errorf("venue not found")
	}
	return v, nil
}

type fakeServiceRepo struct {
	models.ServiceRepo
	services map[uuid.UUID]*models.Service
}

func (f *fakeServiceRepo) GetServiceByID(_ context.Context, id uuid.UUID) (*models.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, fmt.Errorf("service not found")
	}
	return s, nil
}

type fakeNotifier struct {
	sent []models.BookingStatus
	err  error
}

func (f *fakeNotifier) BookingStatusChanged(_ context.Context, _ string, b *models.Booking) error {
	f.sent = append(f.sent, b.Status)
	return f.err
}

func fptr(f float64) *float64 { return &f }

func approvedVenue() *models.Venue {
	return &models.Venue{
		Id:       uuid.New(),
		OwnerId:  uuid.New(),
		Name:     "Harbour Hall",
		City:     "Accra",
		Capacity: 200,
		Status:   models.ListingApproved,
		Pricing:  models.Pricing{Type: models.PricingHourly, HourlyPrice: fptr(1000)},
		CateringPackages: []models.VenueCateringPackage{
			{ID: uuid.New(), Name: "Standard", Price: 20, IsActive: true},
		},
	}
}

func approvedService(category string, pricing models.Pricing) *models.Service {
	return &models.Service{
		Id:         uuid.New(),
		ProviderId: uuid.New(),
		Name:       "Test Service",
		Category:   category,
		Status:     models.ListingApproved,
		Pricing:    pricing,
	}
}

func newTestBookingService(venue *models.Venue, svcs ...*models.Service) (*BookingService, *fakeBookingRepo, *fakeNotifier) {
	repo := newFakeBookingRepo()
	venues := &fakeVenueRepo{venues: map[uuid.UUID]*models.Venue{}}
	if venue != nil {
		venues.venues[venue.Id] = venue
	}
	serviceRepo := &fakeServiceRepo{services: map[uuid.UUID]*models.Service{}}
	for _, s := range svcs {
		serviceRepo.services[s.Id] = s
	}
	notifier := &fakeNotifier{}
	return NewBookingService(repo, venues, serviceRepo, notifier, nil), repo, notifier
}

// eventStart is a booking window safely in the future so date validation
// never trips in fixtures.
func eventStart() time.Time {
	return time.Now().AddDate(0, 1, 0).Truncate(time.Hour)
}

func venueInput(v *models.Venue, hours float64) VenueBookingInput {
	start := eventStart()
	return VenueBookingInput{
		VenueId:       v.Id,
		EventDate:     start,
		StartTime:     start,
		EndTime:       start.Add(time.Duration(hours * float64(time.Hour))),
		GuestCount:    50,
		CustomerEmail: "guest@example.com",
	}
}

func TestCreateVenueBooking(t *testing.T) {
	venue := approvedVenue()
	svc, repo, notifier := newTestBookingService(venue)

	booking, err := svc.CreateVenueBooking(context.Background(), uuid.New(), venueInput(venue, 3))
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, booking.Status)
	assert.Equal(t, models.PricingHourly, booking.VenuePricing)
	assert.Equal(t, 1000.0, booking.VenueUnitPrice)
	assert.Equal(t, 3000.0, booking.VenueCost)
	assert.Equal(t, 3000.0, booking.TotalCost)

	stored, err := repo.GetBookingByID(context.Background(), booking.Id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, models.StatusPending, notifier.sent[0])
}

func TestCreateVenueBookingSnapshotsPrice(t *testing.T) {
	venue := approvedVenue()
	svc, repo, _ := newTestBookingService(venue)

	booking, err := svc.CreateVenueBooking(context.Background(), uuid.New(), venueInput(venue, 2))
	require.NoError(t, err)

	// A later price hike on the listing must not move the booking.
	*venue.Pricing.HourlyPrice = 5000

	stored, err := repo.GetBookingByID(context.Background(), booking.Id)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, stored.VenueUnitPrice)
	assert.Equal(t, 2000.0, stored.TotalCost)
}

func TestCreateVenueBookingRejectsUnapproved(t *testing.T) {
	venue := approvedVenue()
	venue.Status = models.ListingPending
	svc, _, _ := newTestBookingService(venue)

	_, err := svc.CreateVenueBooking(context.Background(), uuid.New(), venueInput(venue, 2))
	require.Error(t, err)
}

func TestCreateVenueBookingRejectsPastDate(t *testing.T) {
	venue := approvedVenue()
	svc, _, _ := newTestBookingService(venue)

	input := venueInput(venue, 2)
	input.EventDate = time.Now().AddDate(0, 0, -2)
	_, err := svc.CreateVenueBooking(context.Background(), uuid.New(), input)
	require.Error(t, err)
}

func TestCreateVenueBookingRejectsOverCapacity(t *testing.T) {
	venue := approvedVenue()
	svc, _, _ := newTestBookingService(venue)

	input := venueInput(venue, 2)
	input.GuestCount = venue.Capacity + 1
	_, err := svc.CreateVenueBooking(context.Background(), uuid.New(), input)
	require.Error(t, err)
}

func TestCreateServiceBookingStartsInQuotation(t *testing.T) {
	svc, _, notifier := newTestBookingService(nil)

	start := eventStart()
	booking, err := svc.CreateServiceBooking(context.Background(), uuid.New(), ServiceBookingInput{
		EventDate:     start,
		StartTime:     start,
		EndTime:       start.Add(4 * time.Hour),
		CustomerEmail: "guest@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusQuotation, booking.Status)
	assert.Equal(t, models.BookingServiceOnly, booking.Type)
	assert.Zero(t, booking.VenueCost)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, models.StatusQuotation, notifier.sent[0])
}

func TestAddServiceUpdatesDuplicateLine(t *testing.T) {
	venue := approvedVenue()
	dj := approvedService("dj", models.Pricing{Type: models.PricingHourly, HourlyPrice: fptr(150)})
	svc, _, _ := newTestBookingService(venue, dj)

	userId := uuid.New()
	booking, err := svc.CreateVenueBooking(context.Background(), userId, venueInput(venue, 3))
	require.NoError(t, err)

	booking, err = svc.AddService(context.Background(), userId, booking.Id, AddServiceInput{
		ServiceId: dj.Id,
		Quantity:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, 300.0, booking.ServicesCost)

	// Adding the same service again replaces the line, it never duplicates.
	booking, err = svc.AddService(context.Background(), userId, booking.Id, AddServiceInput{
		ServiceId: dj.Id,
		Quantity:  4,
	})
	require.NoError(t, err)
	assert.Len(t, booking.Services, 1)
	assert.Equal(t, 600.0, booking.ServicesCost)
	assert.Equal(t, 3600.0, booking.TotalCost)
}

func TestAddServiceFlatIgnoresQuantity(t *testing.T) {
	venue := approvedVenue()
	photo := approvedService("photography", models.Pricing{Type: models.PricingFlat, FlatPrice: fptr(200)})
	svc, _, _ := newTestBookingService(venue, photo)

	userId := uuid.New()
	booking, err := svc.CreateVenueBooking(context.Background(), userId, venueInput(venue, 3))
	require.NoError(t, err)

	booking, err = svc.AddService(context.Background(), userId, booking.Id, AddServiceInput{
		ServiceId: photo.Id,
		Quantity:  5,
	})
	require.NoError(t, err)
	assert.Equal(t, 200.0, booking.ServicesCost)
}

func TestAddServicePackagePricesFlat(t *testing.T) {
	venue := approvedVenue()
	band := approvedService("music", models.Pricing{Type: models.PricingHourly, HourlyPrice: fptr(300)})
	pkg := models.ServicePackage{ID: uuid.New(), Name: "Full evening", Price: 1200, IsActive: true}
	band.Packages = []models.ServicePackage{pkg}
	svc, _, _ := newTestBookingService(venue, band)

	userId := uuid.New()
	booking, err := svc.CreateVenueBooking(context.Background(), userId, venueInput(venue, 3))
	require.NoError(t, err)

	booking, err = svc.AddService(context.Background(), userId, booking.Id, AddServiceInput{
		ServiceId: band.Id,
		PackageId: &pkg.ID,
		Quantity:  3,
	})
	require.NoError(t, err)

	line := booking.Services[band.Id.String()]
	assert.Equal(t, models.PricingFlat, line.PricingType)
	assert.Equal(t, 1200.0, line.UnitPrice)
	assert.Equal(t, 1200.0, booking.ServicesCost)
}

func TestAddServiceBlockedAfterConfirmation(t *testing.T) {
	venue := approvedVenue()
	dj := approvedService("dj", models.Pricing{Type: models.PricingHourly, HourlyPrice: fptr(150)})
	svc, repo, _ := newTestBookingService(venue, dj)

	userId := uuid.New()
	booking, err := svc.CreateVenueBooking(context.Background(), userId, venueInput(venue, 3))
	require.NoError(t, err)
	require.NoError(t, repo.UpdateBookingStatus(context.Background(), booking.Id, models.StatusPending, models.StatusConfirmed))

	_, err = svc.AddService(context.Background(), userId, booking.Id, AddServiceInput{
		ServiceId: dj.Id,
		Quantity:  1,
	})
	require.Error(t, err)
}

func TestCateringConflicts(t *testing.T) {
	venue := approvedVenue()
	caterer := approvedService("catering", models.Pricing{Type: models.PricingFlat, FlatPrice: fptr(800)})
	svc, _, _ := newTestBookingService(venue, caterer)

	userId := uuid.New()
	booking, err := svc.CreateVenueBooking(context.Background(), userId, venueInput(venue, 3))
	require.NoError(t, err)

	pkgId := venue.CateringPackages[0].ID
	booking, err = svc.SetVenueCatering(context.Background(), userId, booking.Id, pkgId, 100)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, booking.VenueCateringCost)

	// Venue catering blocks a catering-category service.
	_, err = svc.AddService(context.Background(), userId, booking.Id, AddServiceInput{
		ServiceId: caterer.Id,
		Quantity:  1,
	})
	require.Error(t, err)

	// And the other way round.
	booking, err = svc.ClearVenueCatering(context.Background(), userId, booking.Id)
	require.NoError(t, err)
	assert.Zero(t, booking.VenueCateringCost)

	_, err = svc.AddService(context.Background(), userId, booking.Id, AddServiceInput{
		ServiceId: caterer.Id,
		Quantity:  1,
	})
	require.NoError(t, err)

	_, err = svc.SetVenueCatering(context.Background(), userId, booking.Id, pkgId, 100)
	require.Error(t, err)
}

func TestAcceptQuotation(t *testing.T) {
	svc, repo, _ := newTestBookingService(nil)

	userId := uuid.New()
	start := eventStart()
	booking, err := svc.CreateServiceBooking(context.Background(), userId, ServiceBookingInput{
		EventDate:     start,
		StartTime:     start,
		EndTime:       start.Add(4 * time.Hour),
		CustomerEmail: "guest@example.com",
	})
	require.NoError(t, err)

	// No quote issued yet.
	_, err = svc.AcceptQuotation(context.Background(), userId, booking.Id)
	require.Error(t, err)

	require.NoError(t, repo.SetBookingQuote(context.Background(), booking.Id, 2500, "best we can do"))

	accepted, err := svc.AcceptQuotation(context.Background(), userId, booking.Id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, accepted.Status)
}

func TestSetVenueCateringDefaultsServingsToGuests(t *testing.T) {
	venue := approvedVenue()
	svc, _, _ := newTestBookingService(venue)

	userId := uuid.New()
	booking, err := svc.CreateVenueBooking(context.Background(), userId, venueInput(venue, 3))
	require.NoError(t, err)

	pkg := venue.CateringPackages[0]
	booking, err = svc.SetVenueCatering(context.Background(), userId, booking.Id, pkg.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, booking.GuestCount, booking.VenueCatering.Servings)
	assert.Equal(t, pkg.Price*float64(booking.GuestCount), booking.VenueCateringCost)
}

func TestTransitionStatusRejectsIllegalMove(t *testing.T) {
	venue := approvedVenue()
	svc, _, _ := newTestBookingService(venue)

	booking, err := svc.CreateVenueBooking(context.Background(), uuid.New(), venueInput(venue, 2))
	require.NoError(t, err)

	_, err = svc.TransitionStatus(context.Background(), booking, models.StatusCompleted)
	require.Error(t, err)
}

func TestNotifyFailureDoesNotBlockTransition(t *testing.T) {
	venue := approvedVenue()
	svc, repo, notifier := newTestBookingService(venue)
	notifier.err = errors.New("smtp down")

	booking, err := svc.CreateVenueBooking(context.Background(), uuid.New(), venueInput(venue, 2))
	require.NoError(t, err)

	updated, err := svc.TransitionStatus(context.Background(), booking, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)

	stored, err := repo.GetBookingByID(context.Background(), booking.Id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, stored.Status)
}

func TestBulkTransitionMixedResults(t *testing.T) {
	venue := approvedVenue()
	svc, repo, _ := newTestBookingService(venue)

	pending, err := svc.CreateVenueBooking(context.Background(), uuid.New(), venueInput(venue, 2))
	require.NoError(t, err)
	cancelled, err := svc.CreateVenueBooking(context.Background(), uuid.New(), venueInput(venue, 2))
	require.NoError(t, err)
	require.NoError(t, repo.UpdateBookingStatus(context.Background(), cancelled.Id, models.StatusPending, models.StatusCancelled))

	results := svc.BulkTransition(context.Background(), []uuid.UUID{pending.Id, cancelled.Id}, models.StatusConfirmed)
	require.Len(t, results, 2)
	assert.True(t, results[0].Ok)
	assert.False(t, results[1].Ok)

	stored, err := repo.GetBookingByID(context.Background(), pending.Id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, stored.Status)
}

func TestBulkQuoteOnlyQuotationBookings(t *testing.T) {
	venue := approvedVenue()
	svc, repo, notifier := newTestBookingService(venue)

	userId := uuid.New()
	start := eventStart()
	quotation, err := svc.CreateServiceBooking(context.Background(), userId, ServiceBookingInput{
		EventDate:     start,
		StartTime:     start,
		EndTime:       start.Add(4 * time.Hour),
		CustomerEmail: "guest@example.com",
	})
	require.NoError(t, err)
	pending, err := svc.CreateVenueBooking(context.Background(), userId, venueInput(venue, 2))
	require.NoError(t, err)

	notifier.sent = nil
	results, err := svc.BulkQuote(context.Background(), []uuid.UUID{quotation.Id, pending.Id}, BulkQuoteInput{
		Price:   1800,
		Message: "includes setup",
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Ok)
	assert.False(t, results[1].Ok)

	stored, err := repo.GetBookingByID(context.Background(), quotation.Id)
	require.NoError(t, err)
	require.NotNil(t, stored.QuotedPrice)
	assert.Equal(t, 1800.0, *stored.QuotedPrice)
	assert.Equal(t, "includes setup", stored.QuoteMessage)

	// Only the quoted booking gets an email.
	assert.Len(t, notifier.sent, 1)
}

func TestBulkPaymentStatus(t *testing.T) {
	venue := approvedVenue()
	svc, repo, _ := newTestBookingService(venue)

	booking, err := svc.CreateVenueBooking(context.Background(), uuid.New(), venueInput(venue, 2))
	require.NoError(t, err)

	results := svc.BulkPaymentStatus(context.Background(), []uuid.UUID{booking.Id, uuid.New()}, models.PaymentPaid)
	require.Len(t, results, 2)
	assert.True(t, results[0].Ok)
	assert.False(t, results[1].Ok)

	stored, err := repo.GetBookingByID(context.Background(), booking.Id)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, stored.PaymentStatus)
}
