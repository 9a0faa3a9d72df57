package models

// Library actions accepted by the library update endpoint.
const (
	LibraryActionAdd            = "add"
	LibraryActionRemove         = "remove"
	LibraryActionToggleFinished = "toggle_finished"
)

// LibraryBookPayload carries the book snapshot sent by the client when
// saving a book to the library.
type LibraryBookPayload struct {
	ID                   string `json:"id" binding:"required"`
	Title                string `json:"title"`
	Author               string `json:"author"`
	ImageLink            string `json:"imageLink"`
	SubscriptionRequired bool   `json:"subscriptionRequired"`
}

// UpdateLibraryRequest is the body of POST /api/v1/library. Remove and
// toggle_finished only need the book ID; add needs the full payload.
type UpdateLibraryRequest struct {
	Action string              `json:"action" binding:"required"`
	Book   *LibraryBookPayload `json:"book,omitempty"`
	BookID string              `json:"bookId,omitempty"`
}
