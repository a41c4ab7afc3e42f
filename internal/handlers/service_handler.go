package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/envents/envents-server/internal/models"
	"github.com/envents/envents-server/internal/services"
)

// SubmitService accepts a multipart form with a "service" JSON part and
// photo file parts, landing the listing in the moderation queue.
func SubmitService(s *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, userId, ok := currentUser(c)
		if !ok {
			return
		}
		if !claims.IsServiceProvider() && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only service providers can list services"))
			return
		}

		var service models.Service
		if err := json.Unmarshal([]byte(c.PostForm("service")), &service); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid service payload"))
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid multipart form"))
			return
		}

		created, err := s.SubmitService(c.Request.Context(), userId, &service, form.File["photos"])
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(created, "service submitted for review"))
	}
}

// BrowseServices lists approved services with optional filters.
func BrowseServices(s *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

		list, total, err := s.BrowseServices(c.Request.Context(), models.ServiceFilter{
			City:     c.Query("city"),
			Category: c.Query("category"),
			Page:     page,
			Limit:    limit,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.PaginatedResponse(list, page, limit, int(total)))
	}
}

func GetService(s *services.ListingService, a *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		service, err := s.GetService(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
			return
		}

		if service.Status == models.ListingApproved {
			a.TrackView(c.Request.Context(), service.Id, service.ProviderId, models.FavouriteService, viewerKey(c))
		}

		c.JSON(http.StatusOK, models.SuccessResponse(service, ""))
	}
}

func GetServiceBySlug(s *services.ListingService, a *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		service, err := s.GetServiceBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
			return
		}

		if service.Status == models.ListingApproved {
			a.TrackView(c.Request.Context(), service.Id, service.ProviderId, models.FavouriteService, viewerKey(c))
		}

		c.JSON(http.StatusOK, models.SuccessResponse(service, ""))
	}
}

// UpdateService lets the provider edit their listing. The edit goes back
// through moderation.
func UpdateService(s *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		var input services.ServiceUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid service payload"))
			return
		}

		updated, err := s.UpdateService(c.Request.Context(), userId, id, input)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "service updated and resubmitted for review"))
	}
}

func DeleteService(s *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		if err := s.DeleteService(c.Request.Context(), id, userId); err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "service deleted"))
	}
}

// MyServices lists the caller's own service listings.
func MyServices(s *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}

		list, err := s.ProviderServices(c.Request.Context(), userId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(list, ""))
	}
}

// ServiceCategories serves the cached category list for browse filters.
func ServiceCategories(s *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := s.ServiceCategories(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(categories, ""))
	}
}
