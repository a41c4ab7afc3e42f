package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/envents/envents-server/internal/models"
	"github.com/envents/envents-server/internal/services"
)

// AddFavourite saves a venue or service to the caller's favourites.
func AddFavourite(f *services.FavouriteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}

		var input struct {
			ListingId string `json:"listing_id" binding:"required"`
			Kind      string `json:"kind" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid favourite payload"))
			return
		}

		kind, err := models.ParseFavouriteKind(input.Kind)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		listingId, err := uuid.Parse(input.ListingId)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid listing_id"))
			return
		}

		fav, err := f.AddFavourite(c.Request.Context(), userId, kind, listingId)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(fav, "favourite added"))
	}
}

// RemoveFavourite drops a listing from the caller's favourites.
func RemoveFavourite(f *services.FavouriteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}
		listingId, ok := uuidParam(c, "listingId")
		if !ok {
			return
		}

		fav, err := f.RemoveFavourite(c.Request.Context(), userId, listingId)
		if err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(fav, "favourite removed"))
	}
}

// GetFavourites returns the caller's saved listings.
func GetFavourites(f *services.FavouriteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}

		fav, err := f.GetFavourites(c.Request.Context(), userId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(fav, ""))
	}
}
