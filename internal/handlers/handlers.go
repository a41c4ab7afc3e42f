package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/envents/envents-server/internal/helpers"
	"github.com/envents/envents-server/internal/models"
)

// currentUser pulls auth claims off the context and parses the subject id.
// Aborts with 401 when the middleware has not stored a valid user.
func currentUser(c *gin.Context) (*helpers.EnhancedClaims, uuid.UUID, bool) {
	raw, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("authentication required"))
		return nil, uuid.Nil, false
	}
	claims, ok := raw.(*helpers.EnhancedClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("invalid session"))
		return nil, uuid.Nil, false
	}
	userId, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("invalid user id in session"))
		return nil, uuid.Nil, false
	}
	return claims, userId, true
}

// uuidParam parses a uuid path parameter, responding 400 on failure.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(fmt.Sprintf("invalid %s", name)))
		return uuid.Nil, false
	}
	return id, true
}

// viewerKey identifies a viewer for view dedup without requiring login.
func viewerKey(c *gin.Context) string {
	if raw, exists := c.Get("user"); exists {
		if claims, ok := raw.(*helpers.EnhancedClaims); ok {
			return "u:" + claims.UserID
		}
	}
	return "ip:" + c.ClientIP()
}
