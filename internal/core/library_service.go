package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"summarist-backend-go/internal/db"
	"summarist-backend-go/internal/models"
)

type libraryService struct {
	library db.LibraryRepository
	logger  *zap.Logger
}

// NewLibraryService creates a new instance of libraryService.
func NewLibraryService(library db.LibraryRepository, logger *zap.Logger) LibraryService {
	return &libraryService{library: library, logger: logger}
}

func (s *libraryService) List(ctx context.Context, userID string) ([]*models.LibraryEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", ErrUnauthenticated)
	}
	entries, err := s.library.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list library for user '%s': %w", userID, err)
	}
	if entries == nil {
		entries = []*models.LibraryEntry{}
	}
	return entries, nil
}

// Add saves a book to the library. Re-adding an already saved book
// refreshes the snapshot fields but keeps the original addedAt and
// finished state.
func (s *libraryService) Add(ctx context.Context, userID string, book *models.LibraryBookPayload) (*models.LibraryEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", ErrUnauthenticated)
	}
	if book == nil || book.ID == "" {
		return nil, fmt.Errorf("%w: book with an id is required", ErrInvalidInput)
	}

	entry := &models.LibraryEntry{
		BookID:               book.ID,
		Title:                book.Title,
		Author:               book.Author,
		ImageLink:            book.ImageLink,
		SubscriptionRequired: book.SubscriptionRequired,
		AddedAt:              time.Now().UTC(),
	}
	existing, err := s.library.Get(ctx, userID, book.ID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to load library entry '%s': %w", book.ID, err)
	}
	if existing != nil {
		entry.AddedAt = existing.AddedAt
		entry.Finished = existing.Finished
	}

	if err := s.library.Set(ctx, userID, entry); err != nil {
		return nil, fmt.Errorf("failed to save library entry '%s': %w", book.ID, err)
	}
	return entry, nil
}

func (s *libraryService) Remove(ctx context.Context, userID, bookID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user ID is required", ErrUnauthenticated)
	}
	if bookID == "" {
		return fmt.Errorf("%w: bookId is required", ErrInvalidInput)
	}
	if _, err := s.library.Get(ctx, userID, bookID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("library entry '%s': %w", bookID, ErrNotFound)
		}
		return fmt.Errorf("failed to load library entry '%s': %w", bookID, err)
	}
	if err := s.library.Delete(ctx, userID, bookID); err != nil {
		return fmt.Errorf("failed to delete library entry '%s': %w", bookID, err)
	}
	return nil
}

func (s *libraryService) ToggleFinished(ctx context.Context, userID, bookID string) (*models.LibraryEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", ErrUnauthenticated)
	}
	if bookID == "" {
		return nil, fmt.Errorf("%w: bookId is required", ErrInvalidInput)
	}
	if _, err := s.library.ToggleFinished(ctx, userID, bookID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("library entry '%s': %w", bookID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to toggle library entry '%s': %w", bookID, err)
	}
	entry, err := s.library.Get(ctx, userID, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload library entry '%s': %w", bookID, err)
	}
	return entry, nil
}
