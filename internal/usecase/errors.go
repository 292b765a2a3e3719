package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"lume/internal/infra/logger"

	"go.uber.org/zap"
)

// Error kinds. Every usecase error wraps exactly one of them.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrEmptyCart           = errors.New("empty cart")
	ErrForbidden           = errors.New("forbidden")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrConflict            = errors.New("conflict")
	ErrInternal            = errors.New("internal error")
)

// HTTPError carries the response status and message for the handler layer.
type HTTPError struct {
	Status  int
	Message string
	Kind    error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error { return e.Kind }

// NewHTTPError builds an error from a status code; the kind follows the status.
func NewHTTPError(status int, message string) error {
	return &HTTPError{Status: status, Message: message, Kind: kindForStatus(status)}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func newError(kind error, message string) error {
	return &HTTPError{Status: statusForKind(kind), Message: message, Kind: kind}
}

func notFound(msg string) error      { return newError(ErrNotFound, msg) }
func invalidInput(msg string) error  { return newError(ErrInvalidInput, msg) }
func forbidden() error               { return newError(ErrForbidden, "forbidden") }
func unauthorized() error            { return newError(ErrUnauthorized, "unauthorized") }
func conflict(msg string) error      { return newError(ErrConflict, msg) }
func constraint(msg string) error    { return newError(ErrConstraintViolation, msg) }
func invalidStatus(msg string) error { return newError(ErrInvalidStatus, msg) }

// InvalidInput is exported for input validators outside this package.
func InvalidInput(msg string) error { return invalidInput(msg) }

// Conflict is exported for input validators outside this package.
func Conflict(msg string) error { return conflict(msg) }

// dbError logs the cause and hides it from the client.
func dbError(ctx context.Context, op string, err error) error {
	logger.FromContext(ctx).Error("storage failure", zap.String("op", op), zap.Error(err))
	return newError(ErrInternal, "db error")
}

// passThrough keeps usecase errors returned from inside a transaction and
// turns anything else into a db error.
func passThrough(ctx context.Context, op string, err error) error {
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	return dbError(ctx, op, err)
}

func statusForKind(kind error) int {
	switch kind {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrInvalidInput, ErrInvalidStatus, ErrEmptyCart:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrConstraintViolation, ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrInvalidInput
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusConflict:
		return ErrConflict
	default:
		return ErrInternal
	}
}
