package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/supabase-community/gotrue-go/types"

	"github.com/envents/envents-server/internal/models"
	"github.com/envents/envents-server/internal/services"
)

// Register creates an account in the auth store with a profile row.
func Register(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := c.ShouldBindJSON(&user); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid registration payload"))
			return
		}

		res, err := u.CreateUser(c.Request.Context(), &user)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(res, "account created"))
	}
}

// Login authenticates against the auth store and sets the token cookies
// the auth middleware reads.
func Login(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("email and password are required"))
			return
		}

		res, err := u.AuthenticateUser(c.Request.Context(), input.Email, input.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("invalid email or password"))
			return
		}

		tokenRes, ok := res.(*types.TokenResponse)
		if !ok || tokenRes.AccessToken == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("authentication failed"))
			return
		}

		isProduction := os.Getenv("GIN_MODE") == "production"
		c.SetCookie("access_token", tokenRes.AccessToken, tokenRes.ExpiresIn, "/", "", isProduction, true)
		c.SetCookie("refresh_token", tokenRes.RefreshToken, 3600*24*30, "/", "", isProduction, true)

		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"user_id":    tokenRes.User.ID,
			"email":      tokenRes.User.Email,
			"expires_in": tokenRes.ExpiresIn,
		}, "logged in"))
	}
}

// Logout clears both token cookies.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		isProduction := os.Getenv("GIN_MODE") == "production"
		c.SetCookie("access_token", "", -1, "/", "", isProduction, true)
		c.SetCookie("refresh_token", "", -1, "/", "", isProduction, true)
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "logged out"))
	}
}

// GetProfile returns the caller's profile row.
func GetProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}

		token, err := c.Cookie("access_token")
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("session expired"))
			return
		}

		user, err := u.GetUser(c.Request.Context(), userId, token)
		if err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(user, ""))
	}
}

// UpdateProfile applies a partial update to the caller's profile.
func UpdateProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}

		token, err := c.Cookie("access_token")
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("session expired"))
			return
		}

		var updates map[string]interface{}
		if err := c.ShouldBindJSON(&updates); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid update payload"))
			return
		}

		user, err := u.UpdateUser(c.Request.Context(), updates, userId, token)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(user, "profile updated"))
	}
}

// DeleteAccount removes the caller's profile and clears the session.
func DeleteAccount(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}

		token, err := c.Cookie("access_token")
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("session expired"))
			return
		}

		if err := u.DeleteUser(c.Request.Context(), userId, token); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		isProduction := os.Getenv("GIN_MODE") == "production"
		c.SetCookie("access_token", "", -1, "/", "", isProduction, true)
		c.SetCookie("refresh_token", "", -1, "/", "", isProduction, true)

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "account deleted"))
	}
}
