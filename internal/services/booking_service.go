package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/envents/envents-server/internal/models"
	"github.com/envents/envents-server/internal/notify"
)

// BookingService owns the booking lifecycle: creation, line-item editing,
// the status machine, quoting, and the admin bulk commands.
type BookingService struct {
	bookings models.BookingRepo
	venues   models.VenueRepo
	services models.ServiceRepo
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewBookingService(
	bookings models.BookingRepo,
	venues models.VenueRepo,
	services models.ServiceRepo,
	notifier notify.Notifier,
	logger *slog.Logger,
) *BookingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingService{
		bookings: bookings,
		venues:   venues,
		services: services,
		notifier: notifier,
		logger:   logger,
	}
}

// VenueBookingInput is what a customer submits to book a venue.
type VenueBookingInput struct {
	VenueId         uuid.UUID `json:"venue_id" validate:"required"`
	EventDate       time.Time `json:"event_date" validate:"required"`
	EventType       string    `json:"event_type"`
	StartTime       time.Time `json:"start_time" validate:"required"`
	EndTime         time.Time `json:"end_time" validate:"required"`
	GuestCount      int       `json:"guest_count" validate:"required,gt=0"`
	ContactPhone    string    `json:"contact_phone"`
	SpecialRequests string    `json:"special_requests"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email" validate:"required,email"`
}

// CreateVenueBooking books an approved venue. Venue bookings start in
// pending; the venue rate is snapshotted so later price edits never move
// an existing booking.
func (s *BookingService) CreateVenueBooking(ctx context.Context, userId uuid.UUID, input VenueBookingInput) (*models.Booking, error) {
	if err := models.Validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid booking request: %w", err)
	}
	if !input.EndTime.After(input.StartTime) {
		return nil, fmt.Errorf("end time must be after start time")
	}
	if input.EventDate.Before(time.Now().Truncate(24 * time.Hour)) {
		return nil, fmt.Errorf("event date cannot be in the past")
	}

	venue, err := s.venues.GetVenueByID(ctx, input.VenueId)
	if err != nil {
		return nil, err
	}
	if venue.Status != models.ListingApproved {
		return nil, fmt.Errorf("venue is not available for booking")
	}
	if input.GuestCount > venue.Capacity {
		return nil, fmt.Errorf("guest count %d exceeds venue capacity %d", input.GuestCount, venue.Capacity)
	}

	booking := &models.Booking{
		Id:              uuid.New(),
		UserId:          userId,
		Type:            models.BookingVenue,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		VenueId:         &venue.Id,
		VenueName:       venue.Name,
		VenuePricing:    venue.Pricing.Type,
		VenueUnitPrice:  venue.Pricing.ActiveRate(),
		EventDate:       input.EventDate,
		EventType:       input.EventType,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		GuestCount:      input.GuestCount,
		ContactPhone:    input.ContactPhone,
		SpecialRequests: input.SpecialRequests,
		Services:        map[string]models.ServiceLine{},
		Status:          models.StatusPending,
		PaymentStatus:   models.PaymentUnpaid,
	}
	booking.RecomputeCosts()

	if err := s.bookings.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.sendStatusEmail(ctx, booking)
	return booking, nil
}

// ServiceBookingInput is what a customer submits to book services without
// a venue.
type ServiceBookingInput struct {
	EventDate       time.Time `json:"event_date" validate:"required"`
	EventType       string    `json:"event_type"`
	StartTime       time.Time `json:"start_time" validate:"required"`
	EndTime         time.Time `json:"end_time" validate:"required"`
	ContactPhone    string    `json:"contact_phone"`
	SpecialRequests string    `json:"special_requests"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email" validate:"required,email"`
}

// CreateServiceBooking opens a service-only booking. These carry no venue
// cost and start in quotation so an admin can price them.
func (s *BookingService) CreateServiceBooking(ctx context.Context, userId uuid.UUID, input ServiceBookingInput) (*models.Booking, error) {
	if err := models.Validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid booking request: %w", err)
	}
	if !input.EndTime.After(input.StartTime) {
		return nil, fmt.Errorf("end time must be after start time")
	}
	if input.EventDate.Before(time.Now().Truncate(24 * time.Hour)) {
		return nil, fmt.Errorf("event date cannot be in the past")
	}

	booking := &models.Booking{
		Id:              uuid.New(),
		UserId:          userId,
		Type:            models.BookingServiceOnly,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		EventDate:       input.EventDate,
		EventType:       input.EventType,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		ContactPhone:    input.ContactPhone,
		SpecialRequests: input.SpecialRequests,
		Services:        map[string]models.ServiceLine{},
		Status:          models.StatusQuotation,
		PaymentStatus:   models.PaymentUnpaid,
	}
	booking.RecomputeCosts()

	if err := s.bookings.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.sendStatusEmail(ctx, booking)
	return booking, nil
}

// AddServiceInput adds or updates one service line on a booking.
type AddServiceInput struct {
	ServiceId           uuid.UUID  `json:"service_id" validate:"required"`
	PackageId           *uuid.UUID `json:"package_id,omitempty"`
	Quantity            float64    `json:"quantity" validate:"required,gt=0"`
	SpecialRequirements string     `json:"special_requirements"`
}

// AddService attaches a service to the booking, snapshotting its current
// price. Adding a service that is already on the booking updates the
// existing line rather than duplicating it.
func (s *BookingService) AddService(ctx context.Context, userId uuid.UUID, bookingId uuid.UUID, input AddServiceInput) (*models.Booking, error) {
	if err := models.Validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid service request: %w", err)
	}

	booking, err := s.ownedBooking(ctx, userId, bookingId)
	if err != nil {
		return nil, err
	}
	if !booking.ServicesEditable() {
		return nil, fmt.Errorf("services cannot be changed once a booking is %s", booking.Status)
	}

	service, err := s.services.GetServiceByID(ctx, input.ServiceId)
	if err != nil {
		return nil, err
	}
	if service.Status != models.ListingApproved {
		return nil, fmt.Errorf("service is not available for booking")
	}
	if service.IsCatering() && booking.VenueCatering != nil {
		return nil, fmt.Errorf("booking already has venue catering; remove it before adding a catering service")
	}

	line := models.ServiceLine{
		ServiceID:           service.Id,
		ServiceName:         service.Name,
		Category:            service.Category,
		PricingType:         service.Pricing.Type,
		Quantity:            input.Quantity,
		UnitPrice:           service.Pricing.ActiveRate(),
		SpecialRequirements: input.SpecialRequirements,
		AddedAt:             time.Now(),
	}

	// A package selection overrides the base pricing: packages always
	// charge their fixed price once.
	if input.PackageId != nil {
		pkg, ok := service.Package(*input.PackageId)
		if !ok {
			return nil, fmt.Errorf("package not found on service")
		}
		line.PackageID = &pkg.ID
		line.PackageName = pkg.Name
		line.PricingType = models.PricingFlat
		line.UnitPrice = pkg.Price
	}

	if booking.Services == nil {
		booking.Services = map[string]models.ServiceLine{}
	}
	booking.Services[service.Id.String()] = line
	booking.RecomputeCosts()

	if err := s.bookings.ReplaceBooking(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// RemoveService drops a service line and recomputes costs.
func (s *BookingService) RemoveService(ctx context.Context, userId uuid.UUID, bookingId, serviceId uuid.UUID) (*models.Booking, error) {
	booking, err := s.ownedBooking(ctx, userId, bookingId)
	if err != nil {
		return nil, err
	}
	if !booking.ServicesEditable() {
		return nil, fmt.Errorf("services cannot be changed once a booking is %s", booking.Status)
	}

	if _, ok := booking.Services[serviceId.String()]; !ok {
		return nil, fmt.Errorf("service is not on this booking")
	}
	delete(booking.Services, serviceId.String())
	booking.RecomputeCosts()

	if err := s.bookings.ReplaceBooking(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// SetVenueCatering selects one of the venue's catering packages for the
// booking, priced per serving. Servings fall back to the guest count when
// not given.
func (s *BookingService) SetVenueCatering(ctx context.Context, userId uuid.UUID, bookingId, packageId uuid.UUID, servings int) (*models.Booking, error) {
	booking, err := s.ownedBooking(ctx, userId, bookingId)
	if err != nil {
		return nil, err
	}
	if servings <= 0 {
		servings = booking.GuestCount
	}
	if servings <= 0 {
		return nil, fmt.Errorf("servings must be greater than zero")
	}
	if !booking.ServicesEditable() {
		return nil, fmt.Errorf("services cannot be changed once a booking is %s", booking.Status)
	}
	if booking.Type != models.BookingVenue || booking.VenueId == nil {
		return nil, fmt.Errorf("venue catering requires a venue booking")
	}
	if booking.HasCateringService() {
		return nil, fmt.Errorf("booking already has a catering service; remove it before selecting venue catering")
	}

	venue, err := s.venues.GetVenueByID(ctx, *booking.VenueId)
	if err != nil {
		return nil, err
	}
	pkg, ok := venue.CateringPackage(packageId)
	if !ok {
		return nil, fmt.Errorf("catering package not found on venue")
	}

	booking.VenueCatering = &models.VenueCateringSelection{
		PackageID:   pkg.ID,
		PackageName: pkg.Name,
		UnitPrice:   pkg.Price,
		Servings:    servings,
	}
	booking.RecomputeCosts()

	if err := s.bookings.ReplaceBooking(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// ClearVenueCatering removes the catering selection.
func (s *BookingService) ClearVenueCatering(ctx context.Context, userId uuid.UUID, bookingId uuid.UUID) (*models.Booking, error) {
	booking, err := s.ownedBooking(ctx, userId, bookingId)
	if err != nil {
		return nil, err
	}
	if !booking.ServicesEditable() {
		return nil, fmt.Errorf("services cannot be changed once a booking is %s", booking.Status)
	}

	booking.VenueCatering = nil
	booking.RecomputeCosts()

	if err := s.bookings.ReplaceBooking(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// AcceptQuotation lets the customer accept an admin quote, moving the
// booking from quotation to pending. A booking without a quoted price
// cannot be accepted.
func (s *BookingService) AcceptQuotation(ctx context.Context, userId uuid.UUID, bookingId uuid.UUID) (*models.Booking, error) {
	booking, err := s.ownedBooking(ctx, userId, bookingId)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.StatusQuotation {
		return nil, fmt.Errorf("booking is not awaiting quotation")
	}
	if booking.QuotedPrice == nil || *booking.QuotedPrice <= 0 {
		return nil, fmt.Errorf("no quote has been issued for this booking yet")
	}

	return s.TransitionStatus(ctx, booking, models.StatusPending)
}

// CancelBooking is the customer-facing cancel. Terminal states are
// rejected by the transition table.
func (s *BookingService) CancelBooking(ctx context.Context, userId uuid.UUID, bookingId uuid.UUID) (*models.Booking, error) {
	booking, err := s.ownedBooking(ctx, userId, bookingId)
	if err != nil {
		return nil, err
	}
	return s.TransitionStatus(ctx, booking, models.StatusCancelled)
}

// TransitionStatus is the single path for every status change. It checks
// the transition table, applies the change with a compare-and-set on the
// current status, and then notifies the customer. A notification failure
// is logged and never rolls back the transition.
func (s *BookingService) TransitionStatus(ctx context.Context, booking *models.Booking, to models.BookingStatus) (*models.Booking, error) {
	from := booking.Status
	if !from.CanTransition(to) {
		return nil, fmt.Errorf("cannot move booking from %s to %s", from, to)
	}

	if err := s.bookings.UpdateBookingStatus(ctx, booking.Id, from, to); err != nil {
		return nil, err
	}
	booking.Status = to

	s.sendStatusEmail(ctx, booking)
	return booking, nil
}

func (s *BookingService) sendStatusEmail(ctx context.Context, booking *models.Booking) {
	if s.notifier == nil || booking.CustomerEmail == "" {
		return
	}
	if err := s.notifier.BookingStatusChanged(ctx, booking.CustomerEmail, booking); err != nil {
		s.logger.Error("failed to send booking notification",
			"booking_id", booking.Id, "status", booking.Status, "error", err)
	}
}

// GetBooking returns a booking after checking the caller may see it.
func (s *BookingService) GetBooking(ctx context.Context, userId uuid.UUID, isAdmin bool, bookingId uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookings.GetBookingByID(ctx, bookingId)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserId != userId {
		return nil, fmt.Errorf("booking not found")
	}
	return booking, nil
}

// ListUserBookings pages through the caller's bookings, optionally
// filtered by status, ordered by event date.
func (s *BookingService) ListUserBookings(ctx context.Context, userId uuid.UUID, status models.BookingStatus, page int) ([]models.Booking, int64, error) {
	return s.bookings.ListBookings(ctx, models.BookingFilter{
		UserId: userId,
		Status: status,
		Page:   page,
		Limit:  models.BookingPageSize,
	})
}

// ListAllBookings is the admin view over every booking.
func (s *BookingService) ListAllBookings(ctx context.Context, status models.BookingStatus, page, limit int) ([]models.Booking, int64, error) {
	return s.bookings.ListBookings(ctx, models.BookingFilter{
		Status: status,
		Page:   page,
		Limit:  limit,
	})
}

// BulkResult reports the outcome of one booking inside a bulk command.
type BulkResult struct {
	BookingId uuid.UUID `json:"booking_id"`
	Ok        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
}

// BulkTransition applies one status transition to each selected booking.
// Bookings that cannot legally make the move fail individually; the rest
// proceed.
func (s *BookingService) BulkTransition(ctx context.Context, ids []uuid.UUID, to models.BookingStatus) []BulkResult {
	results := make([]BulkResult, 0, len(ids))
	for _, id := range ids {
		booking, err := s.bookings.GetBookingByID(ctx, id)
		if err == nil {
			_, err = s.TransitionStatus(ctx, booking, to)
		}
		results = append(results, toBulkResult(id, err))
	}
	return results
}

// BulkQuoteInput carries an admin quote applied to a selection of
// quotation-stage bookings.
type BulkQuoteInput struct {
	Price   float64 `json:"price" validate:"required,gt=0"`
	Message string  `json:"message"`
}

// BulkQuote records the same quoted price and message on each selected
// booking. Bookings not in quotation are rejected individually.
func (s *BookingService) BulkQuote(ctx context.Context, ids []uuid.UUID, input BulkQuoteInput) ([]BulkResult, error) {
	if err := models.Validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid quote: %w", err)
	}

	results := make([]BulkResult, 0, len(ids))
	for _, id := range ids {
		err := s.bookings.SetBookingQuote(ctx, id, input.Price, input.Message)
		if err == nil {
			if booking, getErr := s.bookings.GetBookingByID(ctx, id); getErr == nil {
				s.sendStatusEmail(ctx, booking)
			}
		}
		results = append(results, toBulkResult(id, err))
	}
	return results, nil
}

// BulkPaymentStatus marks each selected booking's payment state.
func (s *BookingService) BulkPaymentStatus(ctx context.Context, ids []uuid.UUID, status models.PaymentStatus) []BulkResult {
	results := make([]BulkResult, 0, len(ids))
	for _, id := range ids {
		err := s.bookings.SetPaymentStatus(ctx, id, status)
		results = append(results, toBulkResult(id, err))
	}
	return results
}

func toBulkResult(id uuid.UUID, err error) BulkResult {
	if err != nil {
		return BulkResult{BookingId: id, Ok: false, Error: err.Error()}
	}
	return BulkResult{BookingId: id, Ok: true}
}

func (s *BookingService) ownedBooking(ctx context.Context, userId uuid.UUID, bookingId uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookings.GetBookingByID(ctx, bookingId)
	if err != nil {
		return nil, err
	}
	if booking.UserId != userId {
		return nil, fmt.Errorf("booking not found")
	}
	return booking, nil
}
