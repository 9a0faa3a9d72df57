package models

import "time"

// LibraryEntry is a document in libraries/{uid}/books/{bookID}: one saved
// book per document, keyed by book ID. Per-item documents replace the old
// whole-list read-modify-write, so concurrent saves cannot lose updates
// and adding the same book twice overwrites the same document.
type LibraryEntry struct {
	BookID               string    `json:"bookId" firestore:"-"` // document ID
	Title                string    `json:"title" firestore:"title"`
	Author               string    `json:"author,omitempty" firestore:"author,omitempty"`
	ImageLink            string    `json:"imageLink,omitempty" firestore:"imageLink,omitempty"`
	SubscriptionRequired bool      `json:"subscriptionRequired" firestore:"subscriptionRequired"`
	Finished             bool      `json:"finished" firestore:"finished"`
	AddedAt              time.Time `json:"addedAt" firestore:"addedAt"`
	UpdatedAt            time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
