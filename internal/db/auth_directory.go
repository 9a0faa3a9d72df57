package db

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

// FirebaseAuthDirectory looks up account details in Firebase Auth. The
// checkout path uses it to backfill the email on user documents created
// before the profile was initialized.
type FirebaseAuthDirectory struct {
	client *auth.Client
}

// NewFirebaseAuthDirectory creates a new FirebaseAuthDirectory.
func NewFirebaseAuthDirectory(client *auth.Client) *FirebaseAuthDirectory {
	return &FirebaseAuthDirectory{client: client}
}

// GetUserEmail returns the email registered in Firebase Auth for the UID.
func (d *FirebaseAuthDirectory) GetUserEmail(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", errors.New("userID cannot be empty for GetUserEmail")
	}
	record, err := d.client.GetUser(ctx, userID)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return "", fmt.Errorf("auth user '%s' not found: %w", userID, ErrNotFound)
		}
		return "", fmt.Errorf("failed to look up auth user '%s': %w", userID, err)
	}
	return record.Email, nil
}
