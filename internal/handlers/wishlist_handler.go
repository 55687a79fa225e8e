package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/localinsights/internal/helpers"
	"github.com/joshua-takyi/localinsights/internal/middleware"
	"github.com/joshua-takyi/localinsights/internal/models"
	"github.com/joshua-takyi/localinsights/internal/services"
)

func GetWishlist(ws *services.WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := ws.Events(c.Request.Context(), middleware.DeviceID(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(events, len(events)))
	}
}

// AddToWishlist accepts the event id either in the path or as
// {"event_id": "..."} in the body.
func AddToWishlist(ws *services.WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID := helpers.StringTrim(c.Param("id"))
		if eventID == "" {
			var reqBody struct {
				EventID string `json:"event_id" binding:"required"`
			}
			if err := c.ShouldBindJSON(&reqBody); err != nil {
				badRequest(c, "Invalid request body", err)
				return
			}
			eventID = reqBody.EventID
		}

		list, err := ws.Add(c.Request.Context(), middleware.DeviceID(c), eventID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(list, "Event added to wishlist"))
	}
}

func RemoveFromWishlist(ws *services.WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := ws.Remove(c.Request.Context(), middleware.DeviceID(c), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(list, "Event removed from wishlist"))
	}
}

func ToggleWishlist(ws *services.WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		saved, list, err := ws.Toggle(c.Request.Context(), middleware.DeviceID(c), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"saved": saved, "wishlist": list}, ""))
	}
}

func WishlistSummary(ws *services.WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sum, err := ws.Summary(c.Request.Context(), middleware.DeviceID(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(sum, ""))
	}
}

// WishlistCalendar downloads the wishlist as an .ics file.
func WishlistCalendar(ws *services.WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		if err := ws.ExportICS(c.Request.Context(), middleware.DeviceID(c), &buf); err != nil {
			fail(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", services.ICSFilename(time.Now())))
		c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
	}
}
