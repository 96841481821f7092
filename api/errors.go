package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/travelbooking/internal/apperr"
	"github.com/gin-gonic/gin"
)

// writeError maps the error taxonomy to HTTP statuses. Anything
// unrecognized becomes a generic 500 so raw causes never leak.
func writeError(c *gin.Context, err error) {
	var (
		validation    *apperr.ValidationError
		notFound      *apperr.NotFoundError
		conflict      *apperr.ConflictError
		authorization *apperr.AuthorizationError
		persistence   *apperr.PersistenceError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Message})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Message})
	case errors.As(err, &authorization):
		c.JSON(http.StatusForbidden, gin.H{"error": authorization.Message})
	case errors.As(err, &persistence):
		c.JSON(http.StatusInternalServerError, gin.H{"error": persistence.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
