package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"summarist-backend-go/internal/billing"
	"summarist-backend-go/internal/core"
	"summarist-backend-go/internal/middleware"
)

// respondWithError maps service-layer errors to HTTP responses. Anything
// outside the known taxonomy becomes a 500 with the detail kept
// server-side.
func respondWithError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error()})
	case errors.Is(err, core.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found", Details: err.Error()})
	case errors.Is(err, core.ErrNotLinked):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "User not linked to payment provider", Details: "Complete a checkout before opening the billing portal."})
	case errors.Is(err, billing.ErrInvalidSignature):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Webhook signature verification failed"})
	case errors.Is(err, core.ErrUpstream):
		logger.Error("upstream billing failure", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Payment provider error", Details: "Could not complete the operation with the payment provider."})
	default:
		logger.Error("unhandled service error", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// currentUserID returns the authenticated Firebase UID set by the auth
// middleware. A missing or empty value writes the 401 itself.
func currentUserID(c *gin.Context) (string, bool) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: User ID not found in context"})
		return "", false
	}
	userID, ok := raw.(string)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: invalid user ID in context"})
		return "", false
	}
	return userID, true
}
