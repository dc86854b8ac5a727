// Package apperror defines the error kinds surfaced by the API and how each
// one maps onto an HTTP status code.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an AppError.
type ErrorType int

const (
	UnknownError ErrorType = iota
	BadRequestError
	MissingFieldsError
	EmptyValueError
	InvalidFieldNameError
	InvalidValueError
	ConflictError
	NotFoundError
	NoActiveUserError
	InternalError
)

// AppError is the error type returned by the use cases. Fields holds the
// offending field names for the validation kinds.
type AppError struct {
	Type    ErrorType
	Message string
	Fields  []string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for the error kind.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case BadRequestError, MissingFieldsError, EmptyValueError, InvalidFieldNameError, InvalidValueError:
		return http.StatusBadRequest
	case NotFoundError, NoActiveUserError:
		return http.StatusNotFound
	case ConflictError:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

func NewBadRequestError(message string, underlyingError error) *AppError {
	return NewAppError(BadRequestError, message, underlyingError)
}

// NewMissingFieldsError reports required fields absent from a payload.
func NewMissingFieldsError(fields []string) *AppError {
	e := NewAppError(MissingFieldsError, fmt.Sprintf("The following fields are missing: %v", fields), nil)
	e.Fields = fields
	return e
}

// NewEmptyValueError reports fields present in a payload but set to an empty value.
func NewEmptyValueError(fields []string) *AppError {
	e := NewAppError(EmptyValueError, fmt.Sprintf("The following field values are empty: %v", fields), nil)
	e.Fields = fields
	return e
}

// NewInvalidFieldNameError reports payload keys that do not name a writable field.
func NewInvalidFieldNameError(fields []string) *AppError {
	e := NewAppError(InvalidFieldNameError, fmt.Sprintf("These fields are not valid: %v", fields), nil)
	e.Fields = fields
	return e
}

func NewInvalidValueError(field, message string) *AppError {
	e := NewAppError(InvalidValueError, message, nil)
	e.Fields = []string{field}
	return e
}

func NewConflictError(message string, underlyingError error) *AppError {
	return NewAppError(ConflictError, message, underlyingError)
}

func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

func NewNoActiveUserError() *AppError {
	return NewAppError(NoActiveUserError, "No user is active", nil)
}

func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Msg    string   `json:"msg"`
	Fields []string `json:"fields,omitempty"`
}

func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Msg: e.Message, Fields: e.Fields}
}

// FromError returns err as an *AppError, wrapping anything else as an
// internal error.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("Internal server error", err)
}

func Is(err error, errType ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == errType
}

func IsNotFound(err error) bool {
	return Is(err, NotFoundError)
}

func IsConflict(err error) bool {
	return Is(err, ConflictError)
}
