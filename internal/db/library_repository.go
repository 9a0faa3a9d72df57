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

const (
	librariesCollection    = "libraries"
	libraryBooksCollection = "books"
)

// firestoreLibraryRepository implements LibraryRepository over
// libraries/{uid}/books/{bookID}. One document per saved book, keyed by
// book ID, so concurrent adds of different books never touch the same
// document and adding the same book twice collapses into one write target.
type firestoreLibraryRepository struct {
	client *firestore.Client
}

// NewFirestoreLibraryRepository creates a new instance of firestoreLibraryRepository.
func NewFirestoreLibraryRepository(client *firestore.Client) LibraryRepository {
	return &firestoreLibraryRepository{client: client}
}

func (r *firestoreLibraryRepository) docRef(userID, bookID string) *firestore.DocumentRef {
	return r.client.Collection(librariesCollection).Doc(userID).
		Collection(libraryBooksCollection).Doc(bookID)
}

// List returns the user's saved books, most recently added first.
func (r *firestoreLibraryRepository) List(ctx context.Context, userID string) ([]*models.LibraryEntry, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for List")
	}

	iter := r.client.Collection(librariesCollection).Doc(userID).
		Collection(libraryBooksCollection).
		OrderBy("addedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	entries := []*models.LibraryEntry{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list library for user '%s': %w", userID, err)
		}

		var entry models.LibraryEntry
		if err := docSnap.DataTo(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode library entry '%s': %w", docSnap.Ref.ID, err)
		}
		entry.BookID = docSnap.Ref.ID
		entries = append(entries, &entry)
	}
	return entries, nil
}

// Get retrieves one library entry.
func (r *firestoreLibraryRepository) Get(ctx context.Context, userID, bookID string) (*models.LibraryEntry, error) {
	if userID == "" || bookID == "" {
		return nil, errors.New("userID and bookID are required for Get")
	}
	docSnap, err := r.docRef(userID, bookID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("library entry '%s' not found for user '%s': %w", bookID, userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get library entry '%s' for user '%s': %w", bookID, userID, err)
	}

	var entry models.LibraryEntry
	if err := docSnap.DataTo(&entry); err != nil {
		return nil, fmt.Errorf("failed to decode library entry '%s': %w", bookID, err)
	}
	entry.BookID = docSnap.Ref.ID
	return &entry, nil
}

// Set writes the entry at its book ID. Re-adding a saved book overwrites
// the same document, which is what makes add idempotent.
func (r *firestoreLibraryRepository) Set(ctx context.Context, userID string, entry *models.LibraryEntry) error {
	if userID == "" || entry == nil || entry.BookID == "" {
		return errors.New("userID and entry book ID are required for Set")
	}
	_, err := r.docRef(userID, entry.BookID).Set(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to save library entry '%s' for user '%s': %w", entry.BookID, userID, err)
	}
	return nil
}

// Delete removes one library entry. Deleting a missing document is not an
// error in Firestore; existence checks belong to the service layer.
func (r *firestoreLibraryRepository) Delete(ctx context.Context, userID, bookID string) error {
	if userID == "" || bookID == "" {
		return errors.New("userID and bookID are required for Delete")
	}
	if _, err := r.docRef(userID, bookID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete library entry '%s' for user '%s': %w", bookID, userID, err)
	}
	return nil
}

// ToggleFinished flips the finished flag inside a transaction so two
// concurrent toggles serialize instead of losing one another's write.
func (r *firestoreLibraryRepository) ToggleFinished(ctx context.Context, userID, bookID string) (bool, error) {
	if userID == "" || bookID == "" {
		return false, errors.New("userID and bookID are required for ToggleFinished")
	}

	ref := r.docRef(userID, bookID)
	var newValue bool

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return fmt.Errorf("library entry '%s' not found for user '%s': %w", bookID, userID, ErrNotFound)
			}
			return err
		}

		var entry models.LibraryEntry
		if err := docSnap.DataTo(&entry); err != nil {
			return fmt.Errorf("failed to decode library entry '%s': %w", bookID, err)
		}

		newValue = !entry.Finished
		return tx.Update(ref, []firestore.Update{
			{Path: "finished", Value: newValue},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		})
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle finished for entry '%s': %w", bookID, err)
	}
	return newValue, nil
}

// DeleteAllForUser removes the user's entire library, used during account
// deletion.
func (r *firestoreLibraryRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("userID cannot be empty for DeleteAllForUser")
	}

	iter := r.client.Collection(librariesCollection).Doc(userID).
		Collection(libraryBooksCollection).
		Documents(ctx)
	defer iter.Stop()

	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to iterate library for user '%s': %w", userID, err)
		}
		if _, err := docSnap.Ref.Delete(ctx); err != nil {
			return fmt.Errorf("failed to delete library entry '%s': %w", docSnap.Ref.ID, err)
		}
	}

	// Remove the (possibly empty) container document as well.
	if _, err := r.client.Collection(librariesCollection).Doc(userID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete library document for user '%s': %w", userID, err)
	}
	return nil
}
