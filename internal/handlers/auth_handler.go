package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/localinsights/internal/middleware"
	"github.com/joshua-takyi/localinsights/internal/models"
	"github.com/joshua-takyi/localinsights/internal/services"
)

// Login signs the device in. Any email with a password of six or more
// characters is accepted.
func Login(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reqBody struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&reqBody); err != nil {
			badRequest(c, "Invalid request body", err)
			return
		}

		state, err := as.Login(c.Request.Context(), middleware.DeviceID(c), reqBody.Email, reqBody.Password)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(state, "Login successful"))
	}
}

func Register(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reqBody struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&reqBody); err != nil {
			badRequest(c, "Invalid request body", err)
			return
		}

		state, err := as.Register(c.Request.Context(), middleware.DeviceID(c), reqBody.Name, reqBody.Email, reqBody.Password)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(state, "Registration successful"))
	}
}

// Logout clears the signed-in user. The device keeps its session cookie
// and with it the wishlist and preferences.
func Logout(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := as.Logout(c.Request.Context(), middleware.DeviceID(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(state, "Logout successful"))
	}
}

func Me(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := as.Current(c.Request.Context(), middleware.DeviceID(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"status":        state.Status(),
			"user":          state.User,
			"authenticated": state.Authenticated,
		}, ""))
	}
}
