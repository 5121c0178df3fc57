package customer

import (
	"customer-service/internal/pkg/apperrors"
	"fmt"
)

type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string { return e.msg }

func (e *domainError) Unwrap() error { return e.kind }

var (
	ErrNotFound error = &domainError{kind: apperrors.ErrNotFound, msg: "customer not found"}

	ErrEmailTaken error = &domainError{kind: apperrors.ErrConflict, msg: "Email is already taken"}

	ErrNoDataChanged error = &domainError{kind: apperrors.ErrValidation, msg: "No data changed"}
)

// NotFoundError names the id that could not be resolved. It matches
// ErrNotFound and apperrors.ErrNotFound under errors.Is.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("customer with id [%d] not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
