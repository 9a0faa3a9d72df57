package core

import (
	"context"
	"errors"
	"fmt"

	"summarist-backend-go/internal/db"
	"summarist-backend-go/internal/models"
)

type bookService struct {
	books db.BookRepository
}

// NewBookService creates a new instance of bookService.
func NewBookService(books db.BookRepository) BookService {
	return &bookService{books: books}
}

func (s *bookService) GetByID(ctx context.Context, bookID string) (*models.Book, error) {
	if bookID == "" {
		return nil, fmt.Errorf("%w: book ID is required", ErrInvalidInput)
	}
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("book '%s': %w", bookID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load book '%s': %w", bookID, err)
	}
	return book, nil
}

func (s *bookService) ListByStatus(ctx context.Context, status string, limit int) ([]*models.Book, error) {
	switch status {
	case models.BookStatusSelected, models.BookStatusRecommended, models.BookStatusSuggested:
	default:
		return nil, fmt.Errorf("%w: unknown status '%s'", ErrInvalidInput, status)
	}
	books, err := s.books.ListByStatus(ctx, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list books with status '%s': %w", status, err)
	}
	if books == nil {
		books = []*models.Book{}
	}
	return books, nil
}
