package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/envents/envents-server/internal/models"
	"github.com/envents/envents-server/internal/services"
)

// SubmitVenue accepts a multipart form with a "venue" JSON part and any
// number of "photos" file parts. The listing lands in the moderation queue.
func SubmitVenue(v *services.VenueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, userId, ok := currentUser(c)
		if !ok {
			return
		}
		if !claims.IsVenueOwner() && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only venue owners can list venues"))
			return
		}

		var venue models.Venue
		if err := json.Unmarshal([]byte(c.PostForm("venue")), &venue); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid venue payload"))
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid multipart form"))
			return
		}

		created, err := v.SubmitVenue(c.Request.Context(), userId, &venue, form.File["photos"])
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(created, "venue submitted for review"))
	}
}

// BrowseVenues lists approved venues with optional city, category and
// capacity filters.
func BrowseVenues(v *services.VenueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		minCapacity, _ := strconv.Atoi(c.Query("min_capacity"))

		venues, total, err := v.BrowseVenues(c.Request.Context(), models.VenueFilter{
			City:        c.Query("city"),
			Category:    c.Query("category"),
			MinCapacity: minCapacity,
			Page:        page,
			Limit:       limit,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.PaginatedResponse(venues, page, limit, int(total)))
	}
}

// GetVenue returns one venue by id and records the page view.
func GetVenue(v *services.VenueService, a *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		venue, err := v.GetVenue(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
			return
		}

		if venue.Status == models.ListingApproved {
			a.TrackView(c.Request.Context(), venue.Id, venue.OwnerId, models.FavouriteVenue, viewerKey(c))
		}

		c.JSON(http.StatusOK, models.SuccessResponse(venue, ""))
	}
}

// GetVenueBySlug serves the public detail page URL.
func GetVenueBySlug(v *services.VenueService, a *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		venue, err := v.GetVenueBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
			return
		}

		if venue.Status == models.ListingApproved {
			a.TrackView(c.Request.Context(), venue.Id, venue.OwnerId, models.FavouriteVenue, viewerKey(c))
		}

		c.JSON(http.StatusOK, models.SuccessResponse(venue, ""))
	}
}

// UpdateVenue lets the owner edit their listing. The edit goes back
// through moderation.
func UpdateVenue(v *services.VenueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		var input services.VenueUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid venue payload"))
			return
		}

		updated, err := v.UpdateVenue(c.Request.Context(), userId, id, input)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "venue updated and resubmitted for review"))
	}
}

func DeleteVenue(v *services.VenueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		if err := v.DeleteVenue(c.Request.Context(), id, userId); err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "venue deleted"))
	}
}

// MyVenues lists the caller's own listings, whatever their status.
func MyVenues(v *services.VenueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}

		venues, err := v.OwnerVenues(c.Request.Context(), userId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(venues, ""))
	}
}

// VenueCities serves the cached city list for browse filters.
func VenueCities(v *services.VenueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cities, err := v.Cities(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(cities, ""))
	}
}

// VenueCategories serves the cached category list for browse filters.
func VenueCategories(v *services.VenueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := v.Categories(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(categories, ""))
	}
}

// OwnerViewStats returns per-listing view totals for the caller.
func OwnerViewStats(a *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}

		stats, err := a.OwnerStats(c.Request.Context(), userId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(stats, ""))
	}
}
