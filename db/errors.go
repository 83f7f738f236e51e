package db

import (
	"errors"
	"fmt"
)

// NotFoundError is an error used to encode when an ID isn't found
// for point lookups
type NotFoundError struct {
	ID string
}

// NewNotFoundError constructs a new NotFoundError
func NewNotFoundError(id string) *NotFoundError {
	return &NotFoundError{
		ID: id,
	}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("object with ID '%s' not found in the database",
		e.ID)
}

// InvalidIDError is an error used to encode when an ID
// cannot be converted into the database's identifier format
type InvalidIDError struct {
	ID string
}

// NewInvalidIDError constructs a new InvalidIDError
func NewInvalidIDError(id string) *InvalidIDError {
	return &InvalidIDError{
		ID: id,
	}
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("given ID '%s' is not a valid object ID", e.ID)
}

// IsNotFound reports whether any error in err's chain is a *NotFoundError
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// IsInvalidID reports whether any error in err's chain is an *InvalidIDError
func IsInvalidID(err error) bool {
	var invalid *InvalidIDError
	return errors.As(err, &invalid)
}
