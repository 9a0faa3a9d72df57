package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"summarist-backend-go/internal/middleware"
	"summarist-backend-go/internal/models"
)

type stubLibraryService struct {
	added   []string
	removed []string
	toggled []string
}

func (s *stubLibraryService) List(context.Context, string) ([]*models.LibraryEntry, error) {
	return []*models.LibraryEntry{}, nil
}

func (s *stubLibraryService) Add(_ context.Context, _ string, book *models.LibraryBookPayload) (*models.LibraryEntry, error) {
	s.added = append(s.added, book.ID)
	return &models.LibraryEntry{BookID: book.ID, Title: book.Title}, nil
}

func (s *stubLibraryService) Remove(_ context.Context, _ string, bookID string) error {
	s.removed = append(s.removed, bookID)
	return nil
}

func (s *stubLibraryService) ToggleFinished(_ context.Context, _ string, bookID string) (*models.LibraryEntry, error) {
	s.toggled = append(s.toggled, bookID)
	return &models.LibraryEntry{BookID: bookID, Finished: true}, nil
}

func newLibraryRouter(svc *stubLibraryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set(middleware.ContextUserIDKey, "user-1") })
	handler := NewLibraryHandler(svc, zap.NewNop())
	router.GET("/library", handler.GetLibrary)
	router.POST("/library", handler.UpdateLibrary)
	return router
}

func postLibrary(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/library", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUpdateLibraryDispatchesActions(t *testing.T) {
	svc := &stubLibraryService{}
	router := newLibraryRouter(svc)

	rec := postLibrary(router, `{"action":"add","book":{"id":"book-1","title":"Deep Work"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = postLibrary(router, `{"action":"toggle_finished","bookId":"book-1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"finished":true`)

	rec = postLibrary(router, `{"action":"remove","bookId":"book-1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"book-1"}, svc.added)
	assert.Equal(t, []string{"book-1"}, svc.toggled)
	assert.Equal(t, []string{"book-1"}, svc.removed)
}

func TestUpdateLibraryRejectsUnknownAction(t *testing.T) {
	svc := &stubLibraryService{}
	router := newLibraryRouter(svc)

	rec := postLibrary(router, `{"action":"archive","bookId":"book-1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.added)
	assert.Empty(t, svc.removed)
}

func TestUpdateLibraryRequiresAction(t *testing.T) {
	svc := &stubLibraryService{}
	router := newLibraryRouter(svc)

	rec := postLibrary(router, `{"bookId":"book-1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
