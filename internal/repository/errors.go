// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrNotFound maps to a 404 for an unknown brand, product,
// post or drag id.
package repository

import "errors"

// ErrNotFound is returned when a document lookup matches nothing.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists and ErrUsernameExists surface the unique-index
// violations from registration so the handler can report which
// field collided without leaking raw database errors.
var (
	ErrEmailExists    = errors.New("email already exists")
	ErrUsernameExists = errors.New("username already exists")
)
