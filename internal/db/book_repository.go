package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"summarist-backend-go/internal/models"
)

const booksCollection = "books"

// firestoreBookRepository implements BookRepository over the read-only
// books catalog collection.
type firestoreBookRepository struct {
	client *firestore.Client
}

// NewFirestoreBookRepository creates a new instance of firestoreBookRepository.
func NewFirestoreBookRepository(client *firestore.Client) BookRepository {
	return &firestoreBookRepository{client: client}
}

// GetByID retrieves one catalog book.
func (r *firestoreBookRepository) GetByID(ctx context.Context, bookID string) (*models.Book, error) {
	if bookID == "" {
		return nil, errors.New("bookID cannot be empty for GetByID")
	}
	docSnap, err := r.client.Collection(booksCollection).Doc(bookID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("book with ID '%s' not found: %w", bookID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get book with ID '%s': %w", bookID, err)
	}

	var book models.Book
	if err := docSnap.DataTo(&book); err != nil {
		return nil, fmt.Errorf("failed to decode book data for ID '%s': %w", bookID, err)
	}
	book.ID = docSnap.Ref.ID
	return &book, nil
}

// ListByStatus returns up to limit books carrying the given status
// ("selected", "recommended" or "suggested").
func (r *firestoreBookRepository) ListByStatus(ctx context.Context, status_ string, limit int) ([]*models.Book, error) {
	if status_ == "" {
		return nil, errors.New("status cannot be empty for ListByStatus")
	}
	if limit <= 0 {
		limit = 20
	}

	iter := r.client.Collection(booksCollection).
		Where("status", "==", status_).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	books := []*models.Book{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list books with status '%s': %w", status_, err)
		}

		var book models.Book
		if err := docSnap.DataTo(&book); err != nil {
			return nil, fmt.Errorf("failed to decode book data for ID '%s': %w", docSnap.Ref.ID, err)
		}
		book.ID = docSnap.Ref.ID
		books = append(books, &book)
	}
	return books, nil
}
