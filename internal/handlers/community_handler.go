package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/localinsights/internal/helpers"
	"github.com/joshua-takyi/localinsights/internal/middleware"
	"github.com/joshua-takyi/localinsights/internal/models"
	"github.com/joshua-takyi/localinsights/internal/services"
)

// ListPosts returns the feed; ?type= narrows it to one post type.
func ListPosts(cs *services.CommunityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		posts, err := cs.List(c.Request.Context(), middleware.DeviceID(c), c.Query("type"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(posts, len(posts)))
	}
}

func LikedPosts(cs *services.CommunityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		posts, err := cs.LikedPosts(c.Request.Context(), middleware.DeviceID(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(posts, len(posts)))
	}
}

func CreatePost(cs *services.CommunityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.NewPost
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "Invalid request body", err)
			return
		}
		post, err := cs.CreatePost(c.Request.Context(), middleware.DeviceID(c), in)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(post, "Post created"))
	}
}

func ToggleLike(cs *services.CommunityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := cs.ToggleLike(c.Request.Context(), middleware.DeviceID(c), helpers.StringTrim(c.Param("id")))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(post, ""))
	}
}

func AddComment(cs *services.CommunityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reqBody struct {
			Content string `json:"content"`
		}
		if err := c.ShouldBindJSON(&reqBody); err != nil {
			badRequest(c, "Invalid request body", err)
			return
		}
		comment, err := cs.AddComment(c.Request.Context(), middleware.DeviceID(c), helpers.StringTrim(c.Param("id")), reqBody.Content)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(comment, "Comment added"))
	}
}
