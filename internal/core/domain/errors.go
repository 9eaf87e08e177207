package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection means a store connection could not be obtained.
	ErrConnection = errors.New("connection error")

	// ErrNotFound means no record matches the requested id.
	ErrNotFound = errors.New("bicycle not found")

	// ErrIDDoesNotExist is the same condition as ErrNotFound, seen from the
	// write paths.
	ErrIDDoesNotExist = ErrNotFound

	// ErrStorage means a statement, commit or rollback failed.
	ErrStorage = errors.New("storage error")

	// ErrOperationCancelled means the caller abandoned the operation.
	ErrOperationCancelled = errors.New("operation cancelled")

	ErrInvalidColor = errors.New("invalid color")
	ErrInvalidModel = errors.New("model must not be empty")
	ErrInvalidPage  = errors.New("page and limit must be non-negative")
)

// RepositoryError ties a failed repository operation to one of the sentinel
// kinds above while keeping the driver error.
type RepositoryError struct {
	Op    string
	Kind  error
	Cause error
}

func (e *RepositoryError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Cause)
}

func (e *RepositoryError) Is(target error) bool { return errors.Is(e.Kind, target) }

func (e *RepositoryError) Unwrap() error { return e.Cause }

func NewRepositoryError(op string, kind, cause error) *RepositoryError {
	return &RepositoryError{Op: op, Kind: kind, Cause: cause}
}
