package core

import "errors"

// Closed error taxonomy for the service layer. Handlers map these to HTTP
// statuses; everything else is an internal error.
var (
	// ErrInvalidInput marks client mistakes: missing fields, unknown price
	// IDs, malformed actions.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthenticated marks requests without a usable identity.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound marks lookups of entities that do not exist.
	ErrNotFound = errors.New("not found")

	// ErrUpstream marks failures of the billing provider or another
	// external dependency; the caller may retry.
	ErrUpstream = errors.New("upstream failure")

	// ErrNotLinked is returned for billing operations that require a Stripe
	// customer the user does not have yet.
	ErrNotLinked = errors.New("user has no billing customer")
)
