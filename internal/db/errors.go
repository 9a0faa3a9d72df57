package db

import "errors"

// ErrNotFound is returned when a document does not exist in Firestore.
var ErrNotFound = errors.New("document not found")

// ErrAlreadyProcessed is returned by WebhookEventRepository.MarkProcessed
// for an event that was already recorded.
var ErrAlreadyProcessed = errors.New("webhook event already processed")
