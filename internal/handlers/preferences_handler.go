package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/localinsights/internal/middleware"
	"github.com/joshua-takyi/localinsights/internal/models"
	"github.com/joshua-takyi/localinsights/internal/services"
)

func GetPreferences(ps *services.PreferencesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		prefs, err := ps.Get(c.Request.Context(), middleware.DeviceID(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(prefs, ""))
	}
}

func UpdatePreferences(ps *services.PreferencesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch models.Preferences
		if err := c.ShouldBindJSON(&patch); err != nil {
			badRequest(c, "Invalid request body", err)
			return
		}
		prefs, err := ps.Update(c.Request.Context(), middleware.DeviceID(c), patch)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(prefs, "Preferences updated"))
	}
}

func ToggleTheme(ps *services.PreferencesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		prefs, err := ps.ToggleTheme(c.Request.Context(), middleware.DeviceID(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(prefs, ""))
	}
}

// GetProfile answers 200 with null data for a device that has not been
// onboarded yet.
func GetProfile(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := ps.Get(c.Request.Context(), middleware.DeviceID(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(profile, ""))
	}
}

func SaveProfile(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var profile models.UserProfile
		if err := c.ShouldBindJSON(&profile); err != nil {
			badRequest(c, "Invalid request body", err)
			return
		}
		saved, err := ps.Save(c.Request.Context(), middleware.DeviceID(c), profile)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(saved, "Profile saved"))
	}
}
