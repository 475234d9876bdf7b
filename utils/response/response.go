package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pos-api/services"
)

// HandleServiceError maps the commit engine's error taxonomy onto HTTP
// statuses. Business-rule violations surface as 422 with a single
// human-readable message; authorization failures as 403.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrInvalidProduct),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrInsufficientPayment),
		errors.Is(err, services.ErrEmptySplit):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "transaction not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	}
}
