package domain

import "errors"

var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists is returned when a resource already exists
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., two products
	// claiming the same marketplace ID)
	ErrConflict = errors.New("conflict occurred")

	// ErrTransport is returned when the marketplace cannot be reached or
	// its response cannot be decoded
	ErrTransport = errors.New("marketplace transport failure")

	// ErrMarketplaceRejected is returned when the marketplace answers a
	// write with a non-success status
	ErrMarketplaceRejected = errors.New("marketplace rejected request")

	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
)
