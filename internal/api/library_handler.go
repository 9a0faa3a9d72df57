package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"summarist-backend-go/internal/core"
	"summarist-backend-go/internal/models"
)

// LibraryHandler handles the saved-books library endpoints.
type LibraryHandler struct {
	libraryService core.LibraryService
	logger         *zap.Logger
}

// NewLibraryHandler creates a new LibraryHandler.
func NewLibraryHandler(libraryService core.LibraryService, logger *zap.Logger) *LibraryHandler {
	return &LibraryHandler{libraryService: libraryService, logger: logger}
}

// GetLibrary handles GET /api/v1/library.
func (h *LibraryHandler) GetLibrary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	entries, err := h.libraryService.List(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// UpdateLibrary handles POST /api/v1/library, dispatching on the action
// field: add, remove or toggle_finished.
func (h *LibraryHandler) UpdateLibrary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.UpdateLibraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	ctx := c.Request.Context()
	switch req.Action {
	case models.LibraryActionAdd:
		entry, err := h.libraryService.Add(ctx, userID, req.Book)
		if err != nil {
			respondWithError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, entry)

	case models.LibraryActionRemove:
		if err := h.libraryService.Remove(ctx, userID, req.BookID); err != nil {
			respondWithError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, SuccessResponse{Message: "Book removed from library"})

	case models.LibraryActionToggleFinished:
		entry, err := h.libraryService.ToggleFinished(ctx, userID, req.BookID)
		if err != nil {
			respondWithError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, entry)

	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: "action must be one of add, remove, toggle_finished"})
	}
}
