package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envents/envents-server/internal/helpers"
	"github.com/envents/envents-server/internal/models"
	"github.com/envents/envents-server/internal/services"
)

type cateringBookingRepo struct {
	models.BookingRepo
	booking *models.Booking
}

func (r *cateringBookingRepo) GetBookingByID(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	if r.booking == nil || r.booking.Id != id {
		return nil, fmt.Errorf("booking not found")
	}
	copied := *r.booking
	return &copied, nil
}

func (r *cateringBookingRepo) ReplaceBooking(_ context.Context, booking *models.Booking) error {
	copied := *booking
	r.booking = &copied
	return nil
}

type cateringVenueRepo struct {
	models.VenueRepo
	venue *models.Venue
}

func (r *cateringVenueRepo) GetVenueByID(_ context.Context, id uuid.UUID) (*models.Venue, error) {
	if r.venue == nil || r.venue.Id != id {
		return nil, fmt.Errorf("venue not found")
	}
	return r.venue, nil
}

func TestSetBookingCateringWithoutServingsUsesGuestCount(t *testing.T) {
	gin.SetMode(gin.TestMode)

	userId := uuid.New()
	venue := &models.Venue{
		Id:   uuid.New(),
		Name: "Harbour Hall",
		CateringPackages: []models.VenueCateringPackage{
			{ID: uuid.New(), Name: "Buffet", Price: 20, IsActive: true},
		},
	}
	start := time.Now().AddDate(0, 1, 0)
	bookings := &cateringBookingRepo{booking: &models.Booking{
		Id:         uuid.New(),
		UserId:     userId,
		Type:       models.BookingVenue,
		VenueId:    &venue.Id,
		EventDate:  start,
		StartTime:  start,
		EndTime:    start.Add(3 * time.Hour),
		GuestCount: 50,
		Services:   map[string]models.ServiceLine{},
		Status:     models.StatusPending,
	}}
	svc := services.NewBookingService(bookings, &cateringVenueRepo{venue: venue}, nil, nil, nil)

	router := gin.New()
	router.PUT("/bookings/:id/catering", func(c *gin.Context) {
		c.Set("user", &helpers.EnhancedClaims{UserID: userId.String()})
		SetBookingCatering(svc)(c)
	})

	// No servings in the payload: the guest count must apply.
	body := fmt.Sprintf(`{"package_id":%q}`, venue.CateringPackages[0].ID)
	req := httptest.NewRequest(http.MethodPut, "/bookings/"+bookings.booking.Id.String()+"/catering", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, bookings.booking.VenueCatering)
	assert.Equal(t, 50, bookings.booking.VenueCatering.Servings)
	assert.Equal(t, 1000.0, bookings.booking.VenueCateringCost)
}
