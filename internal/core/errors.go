// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal error")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrActiveShiftExists  = errors.New("guard already has an active shift")
	ErrNoActiveShift      = errors.New("no active shift")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

// CapacityExceededError is returned when a tenant already holds as many
// users as its MaxUserAccounts allows.
type CapacityExceededError struct {
	Current int
	Max     int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf(
		"user limit exceeded: maximum allowed users: %d, current users: %d",
		e.Max,
		e.Current,
	)
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

type AppError struct {
	Err        error  `json:"-"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
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

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: status,
		Code:       code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		resource+" not found",
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		field+" already exists",
		http.StatusConflict,
		"DUPLICATE",
	)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(
		ErrUnauthorized,
		message,
		http.StatusUnauthorized,
		"UNAUTHORIZED",
	)
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "access denied"
	}
	return NewAppError(
		ErrForbidden,
		message,
		http.StatusForbidden,
		"FORBIDDEN",
	)
}

func ValidationFailed(message string) *AppError {
	return NewAppError(
		ErrInvalidInput,
		message,
		http.StatusBadRequest,
		"VALIDATION_FAILED",
	)
}

func CapacityError(err *CapacityExceededError) *AppError {
	return NewAppError(
		err,
		err.Error(),
		http.StatusBadRequest,
		"CAPACITY_EXCEEDED",
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(
		ErrTokenExpired,
		"token has expired",
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"token is invalid",
		http.StatusUnauthorized,
		"TOKEN_INVALID",
	)
}

func InvalidCredentialsError() *AppError {
	return NewAppError(
		ErrInvalidCredentials,
		"invalid email or password",
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
	)
}

// ErrorFor maps a domain error to the HTTP envelope. Unknown errors yield
// nil so the caller falls through to InternalServerError.
func ErrorFor(err error, resource string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var capErr *CapacityExceededError
	if errors.As(err, &capErr) {
		return CapacityError(capErr)
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return ValidationFailed(valErr.Error())
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NotFoundError(resource)
	case errors.Is(err, ErrDuplicateKey):
		return DuplicateError(resource)
	case errors.Is(err, ErrTenantNotFound):
		return NewAppError(
			err,
			"tenant not found",
			http.StatusBadRequest,
			"TENANT_NOT_FOUND",
		)
	case errors.Is(err, ErrForbidden):
		return ForbiddenError("")
	case errors.Is(err, ErrUnauthorized):
		return UnauthorizedError("")
	case errors.Is(err, ErrInvalidCredentials):
		return InvalidCredentialsError()
	case errors.Is(err, ErrActiveShiftExists):
		return NewAppError(
			err,
			"you are already on duty",
			http.StatusBadRequest,
			"ACTIVE_SHIFT_EXISTS",
		)
	case errors.Is(err, ErrNoActiveShift):
		return NewAppError(
			err,
			"no active shift found, start your shift first",
			http.StatusBadRequest,
			"NO_ACTIVE_SHIFT",
		)
	case errors.Is(err, ErrInvalidTransition):
		return NewAppError(
			err,
			err.Error(),
			http.StatusBadRequest,
			"INVALID_TRANSITION",
		)
	case errors.Is(err, ErrInvalidInput):
		return ValidationFailed(err.Error())
	}

	return nil
}
