package repository

import "errors"

// Common repository errors
var (
	// ErrWorkspaceNotFound is returned when a workspace does not exist or is not visible to the caller
	ErrWorkspaceNotFound = errors.New("workspace not found")

	// ErrColumnNotFound is returned when a column does not exist or is not visible to the caller
	ErrColumnNotFound = errors.New("column not found")

	// ErrCardNotFound is returned when a card does not exist or is not visible to the caller
	ErrCardNotFound = errors.New("card not found")

	// ErrPersonaNotFound is returned when a persona is not found
	ErrPersonaNotFound = errors.New("persona not found")

	// ErrMoveFailed wraps any storage failure during a card move; the move is rolled back
	ErrMoveFailed = errors.New("card move failed")
)
