package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/localinsights/internal/filter"
	"github.com/joshua-takyi/localinsights/internal/helpers"
	"github.com/joshua-takyi/localinsights/internal/middleware"
	"github.com/joshua-takyi/localinsights/internal/models"
	"github.com/joshua-takyi/localinsights/internal/services"
)

// GetState returns the whole application state of the calling device.
func GetState(s *services.StateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := s.Snapshot(c.Request.Context(), middleware.DeviceID(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(state, ""))
	}
}

// ListEvents runs the search bar: ?q= matches title or description,
// ?category= selects one category ("all" or empty for every category).
func ListEvents(cs *services.CatalogueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q filter.Query
		if err := c.ShouldBindQuery(&q); err != nil {
			badRequest(c, "Invalid query", err)
			return
		}
		events := cs.Events(q)
		c.JSON(http.StatusOK, models.ListResponse(events, len(events)))
	}
}

// FilteredEvents applies the device's saved filters. ?near=lat,lng sets
// the point the distance radius is measured from.
func FilteredEvents(cs *services.CatalogueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var origin *models.Coordinates
		if near := c.Query("near"); near != "" {
			coords, err := models.ParseCoordinates(near)
			if err != nil {
				badRequest(c, "Invalid near parameter", err)
				return
			}
			origin = &coords
		}

		events, filters, err := cs.FilteredEvents(c.Request.Context(), middleware.DeviceID(c), origin)
		if err != nil {
			fail(c, err)
			return
		}
		resp := models.ListResponse(gin.H{"events": events, "filters": filters}, len(events))
		c.JSON(http.StatusOK, resp)
	}
}

func GetEvent(cs *services.CatalogueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := helpers.StringTrim(c.Param("id"))
		detail, err := cs.Event(c.Request.Context(), middleware.DeviceID(c), id)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(detail, ""))
	}
}

// ListArtists returns every artist, or only the spotlight with ?spotlight=true.
func ListArtists(cs *services.CatalogueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		artists := cs.Artists(c.Query("spotlight") == "true")
		c.JSON(http.StatusOK, models.ListResponse(artists, len(artists)))
	}
}

func GetFilters(cs *services.CatalogueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters, err := cs.Filters(c.Request.Context(), middleware.DeviceID(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(filters, ""))
	}
}

// UpdateFilters merges a partial filter update; omitted fields are kept.
func UpdateFilters(cs *services.CatalogueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch models.FilterPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			badRequest(c, "Invalid request body", err)
			return
		}
		filters, err := cs.UpdateFilters(c.Request.Context(), middleware.DeviceID(c), patch)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(filters, "Filters updated"))
	}
}
