package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"summarist-backend-go/internal/core"
	"summarist-backend-go/internal/models"
)

// BookHandler exposes the read-only book catalog.
type BookHandler struct {
	bookService core.BookService
	logger      *zap.Logger
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(bookService core.BookService, logger *zap.Logger) *BookHandler {
	return &BookHandler{bookService: bookService, logger: logger}
}

// GetBook handles GET /api/v1/books/:bookId.
func (h *BookHandler) GetBook(c *gin.Context) {
	book, err := h.bookService.GetByID(c.Request.Context(), c.Param("bookId"))
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// ListBooks handles GET /api/v1/books?status=selected|recommended|suggested&limit=N.
func (h *BookHandler) ListBooks(c *gin.Context) {
	status := c.DefaultQuery("status", models.BookStatusRecommended)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	books, err := h.bookService.ListByStatus(c.Request.Context(), status, limit)
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, books)
}
