package handlers

import (
	"errors"
	"net/http"

	"github.com/coopbus/ticketing-backend/internal/models"
	"github.com/gin-gonic/gin"
)

// respondError maps an engine error to an HTTP response. Unclassified errors
// are internal failures and deliberately carry no detail.
func respondError(c *gin.Context, err error) {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	switch appErr.Kind {
	case models.ErrKindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": appErr.Message})
	case models.ErrKindInvalidRequest:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": appErr.Message})
	case models.ErrKindConflict:
		c.JSON(http.StatusConflict, gin.H{"error": "conflict", "message": appErr.Message})
	case models.ErrKindInvalidState:
		c.JSON(http.StatusConflict, gin.H{"error": "invalid_state", "message": appErr.Message})
	case models.ErrKindUnavailable, models.ErrKindTransient:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "unavailable", "message": "please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
