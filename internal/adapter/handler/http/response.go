package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sm8ta/bike_inventory_service/internal/core/domain"
	"github.com/sm8ta/bike_inventory_service/internal/core/services"
)

type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Bicycle not found"`
}

func newErrorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, errorResponse{
		Success: false,
		Message: message,
	})
}

// statusFor maps a service error to the HTTP status reported to the client.
func statusFor(err error) int {
	var vErr *services.ValidationError
	switch {
	case errors.Is(err, domain.ErrOperationCancelled):
		return http.StatusRequestTimeout
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	// A stored row that fails to decode is a server fault, whatever its cause.
	case errors.Is(err, domain.ErrStorage):
		return http.StatusInternalServerError
	case errors.As(err, &vErr),
		errors.Is(err, domain.ErrInvalidColor),
		errors.Is(err, domain.ErrInvalidModel),
		errors.Is(err, domain.ErrInvalidPage):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConnection):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func handleServiceError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	switch status {
	case http.StatusNotFound:
		newErrorResponse(c, status, "Bicycle not found")
	case http.StatusBadRequest:
		newErrorResponse(c, status, err.Error())
	case http.StatusServiceUnavailable:
		newErrorResponse(c, status, "Store unavailable")
	case http.StatusRequestTimeout:
		newErrorResponse(c, status, "Request cancelled")
	default:
		newErrorResponse(c, status, fallback)
	}
}
