package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/27100340/chat-app-backend-v1/internal/models"
	"github.com/27100340/chat-app-backend-v1/internal/services"
)

// statusFor maps error kinds to HTTP status codes: not-found kinds to
// 404, credential failures to 401, business-rule rejections to 400 and
// everything else, storage failures included, to 500.
func statusFor(err error) int {
	switch {
	case models.NotFound(err):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrEmptyContent),
		errors.Is(err, models.ErrEditWindowExceeded),
		errors.Is(err, models.ErrDeleteWindowExceeded),
		errors.Is(err, models.ErrDuplicateMember),
		errors.Is(err, models.ErrMemberNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
