package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/envents/envents-server/internal/models"
	"github.com/envents/envents-server/internal/services"
)

// CreateVenueBooking opens a venue booking for the caller.
func CreateVenueBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, userId, ok := currentUser(c)
		if !ok {
			return
		}

		var input services.VenueBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid booking payload"))
			return
		}
		if input.CustomerEmail == "" {
			input.CustomerEmail = claims.Email
		}
		if input.CustomerName == "" {
			input.CustomerName = claims.Fullname
		}

		booking, err := b.CreateVenueBooking(c.Request.Context(), userId, input)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(booking, "booking created"))
	}
}

// CreateServiceBooking opens a service-only booking, which starts in
// quotation for admin pricing.
func CreateServiceBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, userId, ok := currentUser(c)
		if !ok {
			return
		}

		var input services.ServiceBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid booking payload"))
			return
		}
		if input.CustomerEmail == "" {
			input.CustomerEmail = claims.Email
		}
		if input.CustomerName == "" {
			input.CustomerName = claims.Fullname
		}

		booking, err := b.CreateServiceBooking(c.Request.Context(), userId, input)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(booking, "quotation request created"))
	}
}

// ListMyBookings pages through the caller's bookings, optionally filtered
// by status, ordered by event date.
func ListMyBookings(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

		var status models.BookingStatus
		if raw := c.Query("status"); raw != "" {
			parsed, err := models.ParseBookingStatus(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
				return
			}
			status = parsed
		}

		bookings, total, err := b.ListUserBookings(c.Request.Context(), userId, status, page)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.PaginatedResponse(bookings, page, models.BookingPageSize, int(total)))
	}
}

// GetBooking returns one booking, visible to its owner or an admin.
func GetBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, userId, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		booking, err := b.GetBooking(c.Request.Context(), userId, claims.IsAdmin(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"booking":        booking,
			"days_remaining": booking.DaysRemaining(time.Now()),
		}, ""))
	}
}

// AddBookingService adds or updates one service line on a booking.
func AddBookingService(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		var input services.AddServiceInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid service payload"))
			return
		}

		booking, err := b.AddService(c.Request.Context(), userId, id, input)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(booking, "service added"))
	}
}

// RemoveBookingService drops one service line from a booking.
func RemoveBookingService(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		serviceId, ok := uuidParam(c, "serviceId")
		if !ok {
			return
		}

		booking, err := b.RemoveService(c.Request.Context(), userId, id, serviceId)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(booking, "service removed"))
	}
}

// SetBookingCatering selects a venue catering package for the booking.
func SetBookingCatering(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		// Servings is optional; the service falls back to the guest count.
		var input struct {
			PackageId string `json:"package_id" binding:"required"`
			Servings  int    `json:"servings"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid catering payload"))
			return
		}
		packageId, err := uuid.Parse(input.PackageId)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid package_id"))
			return
		}

		booking, err := b.SetVenueCatering(c.Request.Context(), userId, id, packageId, input.Servings)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(booking, "catering selected"))
	}
}

// ClearBookingCatering removes the venue catering selection.
func ClearBookingCatering(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		booking, err := b.ClearVenueCatering(c.Request.Context(), userId, id)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(booking, "catering removed"))
	}
}

// AcceptQuotation lets the customer accept the admin's quoted price.
func AcceptQuotation(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		booking, err := b.AcceptQuotation(c.Request.Context(), userId, id)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(booking, "quotation accepted"))
	}
}

// CancelBooking cancels the caller's booking if it is not terminal.
func CancelBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		booking, err := b.CancelBooking(c.Request.Context(), userId, id)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(booking, "booking cancelled"))
	}
}
