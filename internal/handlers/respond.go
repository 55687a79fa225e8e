package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/localinsights/internal/auth"
	"github.com/joshua-takyi/localinsights/internal/models"
	"github.com/joshua-takyi/localinsights/internal/services"
)

// fail answers with the status matching err. Unknown errors are attached
// to the context for ErrorHandler to log.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, auth.ErrMissingFields), errors.Is(err, auth.ErrPasswordTooShort):
		status = http.StatusBadRequest
	case errors.Is(err, auth.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, services.ErrUnauthenticated), errors.Is(err, auth.ErrAuthFailed):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrEventNotFound), errors.Is(err, services.ErrPostNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, models.ErrorResponse("Internal server error"))
		return
	}
	c.JSON(status, models.ErrorResponse(err.Error()))
}

func badRequest(c *gin.Context, msg string, err error) {
	resp := models.ErrorResponse(msg)
	if err != nil {
		resp.Message = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}
