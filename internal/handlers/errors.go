package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tucktruck/tucktruck-backend/internal/domain"
)

// respondError maps core errors onto HTTP status codes. The core returns
// typed failures and never logs or masks them itself.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(404, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidRole):
		c.JSON(403, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrDriverBusy):
		c.JSON(409, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(400, gin.H{"error": err.Error()})
	default:
		c.JSON(500, gin.H{"error": "Internal server error"})
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
