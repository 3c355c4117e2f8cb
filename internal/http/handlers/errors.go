package handlers

import (
	"errors"
	"net/http"

	"github.com/Sadath08/Trivara-room/internal/domain"
	"github.com/Sadath08/Trivara-room/internal/http/middleware"
	"github.com/Sadath08/Trivara-room/internal/services"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string, extra gin.H) {
	payload := gin.H{
		"error":      message,
		"message":    message,
		"code":       code,
		"request_id": middleware.GetRequestID(c),
	}
	for k, v := range extra {
		payload[k] = v
	}
	c.JSON(status, payload)
}

// RespondDomainError maps flow errors to HTTP responses. Precondition
// (auth) failures carry a login redirect; collaborator failures keep
// their status and verbatim message.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsUnauthenticated(err):
		respondError(c, http.StatusUnauthorized, "not_authenticated", err.Error(), gin.H{"redirect": "/login"})
	case errors.Is(err, services.ErrSubmitInFlight):
		respondError(c, http.StatusConflict, "submit_in_flight", err.Error(), nil)
	case domain.IsUpstream(err):
		up, _ := domain.AsUpstream(err)
		status := http.StatusBadGateway
		if up.Status >= 400 && up.Status < 500 {
			status = up.Status
		}
		respondError(c, status, "booking_failed", up.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
