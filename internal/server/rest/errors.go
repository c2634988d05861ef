package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gallery/internal/common"
	"github.com/gin-gonic/gin"
)

const invalidRouteMessage = "Invalid request method or path"

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrVersionConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}
