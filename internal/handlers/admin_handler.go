package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/envents/envents-server/internal/models"
	"github.com/envents/envents-server/internal/services"
)

// requireAdmin gates an admin endpoint on the profile role.
func requireAdmin(c *gin.Context) (uuid.UUID, bool) {
	claims, userId, ok := currentUser(c)
	if !ok {
		return uuid.Nil, false
	}
	if !claims.IsAdmin() {
		c.JSON(http.StatusForbidden, models.ErrorResponse("admin access required"))
		return uuid.Nil, false
	}
	return userId, true
}

func parseIDList(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// AdminListBookings pages through every booking, optionally filtered by
// status.
func AdminListBookings(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireAdmin(c); !ok {
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

		var status models.BookingStatus
		if raw := c.Query("status"); raw != "" {
			parsed, err := models.ParseBookingStatus(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
				return
			}
			status = parsed
		}

		bookings, total, err := b.ListAllBookings(c.Request.Context(), status, page, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.PaginatedResponse(bookings, page, limit, int(total)))
	}
}

// BulkTransitionBookings applies one status transition to each selected
// booking. Per-booking results come back so a partial failure is visible.
func BulkTransitionBookings(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireAdmin(c); !ok {
			return
		}

		var input struct {
			BookingIds []string `json:"booking_ids" binding:"required,min=1"`
			Status     string   `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid bulk transition payload"))
			return
		}

		status, err := models.ParseBookingStatus(input.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		ids, err := parseIDList(input.BookingIds)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid booking id in selection"))
			return
		}

		results := b.BulkTransition(c.Request.Context(), ids, status)
		c.JSON(http.StatusOK, models.SuccessResponse(results, "bulk transition applied"))
	}
}

// BulkQuoteBookings records the same quoted price and message on each
// selected quotation-stage booking.
func BulkQuoteBookings(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireAdmin(c); !ok {
			return
		}

		var input struct {
			BookingIds []string `json:"booking_ids" binding:"required,min=1"`
			Price      float64  `json:"price" binding:"required,gt=0"`
			Message    string   `json:"message"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid bulk quote payload"))
			return
		}

		ids, err := parseIDList(input.BookingIds)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid booking id in selection"))
			return
		}

		results, err := b.BulkQuote(c.Request.Context(), ids, services.BulkQuoteInput{
			Price:   input.Price,
			Message: input.Message,
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(results, "quotes sent"))
	}
}

// BulkMarkPayment marks the payment state on each selected booking.
func BulkMarkPayment(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireAdmin(c); !ok {
			return
		}

		var input struct {
			BookingIds    []string `json:"booking_ids" binding:"required,min=1"`
			PaymentStatus string   `json:"payment_status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid bulk payment payload"))
			return
		}

		status, err := models.ParsePaymentStatus(input.PaymentStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		ids, err := parseIDList(input.BookingIds)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid booking id in selection"))
			return
		}

		results := b.BulkPaymentStatus(c.Request.Context(), ids, status)
		c.JSON(http.StatusOK, models.SuccessResponse(results, "payment status updated"))
	}
}

// PendingVenues is the venue moderation queue.
func PendingVenues(v *services.VenueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireAdmin(c); !ok {
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

		venues, total, err := v.PendingVenues(c.Request.Context(), page, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.PaginatedResponse(venues, page, limit, int(total)))
	}
}

// ModerateVenue approves or rejects a pending venue listing.
func ModerateVenue(v *services.VenueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireAdmin(c); !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		var input struct {
			Approve bool `json:"approve"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid moderation payload"))
			return
		}

		if err := v.ModerateVenue(c.Request.Context(), id, input.Approve); err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "venue moderated"))
	}
}

// PendingServices is the service moderation queue.
func PendingServices(s *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireAdmin(c); !ok {
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

		list, total, err := s.PendingServices(c.Request.Context(), page, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.PaginatedResponse(list, page, limit, int(total)))
	}
}

// ModerateService approves or rejects a pending service listing.
func ModerateService(s *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireAdmin(c); !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		var input struct {
			Approve bool `json:"approve"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid moderation payload"))
			return
		}

		if err := s.ModerateService(c.Request.Context(), id, input.Approve); err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "service moderated"))
	}
}
