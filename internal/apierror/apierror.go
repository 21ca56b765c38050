// Package apierror provides the error envelope returned to clients and the
// typed error taxonomy used between services and handlers.
// Internal causes (DB errors, stack traces) never reach the response body.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Error string `json:"error"`
}

func New(msg string) *APIError {
	return &APIError{Error: msg}
}

// ValidationResponse wraps struct-tag failures per field.
type ValidationResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationResponse {
	return &ValidationResponse{Error: "Erro de validação", Fields: fields}
}

// ── Domain errors ────────────────────────────────────────────────────────────

// NotFoundError signals that a referenced entity does not exist.
type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }

// ValidationError signals malformed or out-of-range input.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// AuthError signals invalid credentials or an invalid token. Messages stay generic.
type AuthError struct{ Msg string }

func (e *AuthError) Error() string { return e.Msg }

// OperationError wraps an unexpected failure. Op names the failed operation
// and is only used for logs.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *OperationError) Unwrap() error { return e.Err }

func NotFound(msg string) error { return &NotFoundError{Msg: msg} }

func Invalid(msg string) error { return &ValidationError{Msg: msg} }

func Unauthorized(msg string) error { return &AuthError{Msg: msg} }

// Operation wraps err unless it already belongs to the taxonomy.
func Operation(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomain(err) {
		return err
	}
	return &OperationError{Op: op, Err: err}
}

// IsDomain reports whether err is a NotFound, Validation or Auth error.
func IsDomain(err error) bool {
	var nf *NotFoundError
	var ve *ValidationError
	var ae *AuthError
	return errors.As(err, &nf) || errors.As(err, &ve) || errors.As(err, &ae)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	var nf *NotFoundError
	var ve *ValidationError
	var ae *AuthError
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ae):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-safe message for err.
func Message(err error) string {
	if IsDomain(err) {
		return err.Error()
	}
	return "Erro interno do servidor"
}
