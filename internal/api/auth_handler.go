package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"summarist-backend-go/internal/core"
	"summarist-backend-go/internal/middleware"
)

// AuthHandler handles the post-login profile bootstrap endpoint.
type AuthHandler struct {
	userService core.UserService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService core.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{userService: userService, logger: logger}
}

// InitializeUserProfile handles POST /api/v1/users/initialize. The client
// calls it right after Firebase sign-in so the backend profile document
// exists before any other endpoint is used.
func (h *AuthHandler) InitializeUserProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, created, err := h.userService.GetOrCreate(
		c.Request.Context(),
		userID,
		c.GetString(middleware.ContextUserEmailKey),
		c.GetString(middleware.ContextDisplayNameKey),
		c.GetString(middleware.ContextPhotoURLKey),
	)
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, InitializeUserResponse{Created: created, User: user})
}
