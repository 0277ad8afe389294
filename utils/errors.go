package utils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindConflict     Kind = "CONFLICT"
	KindInvalidState Kind = "INVALID_STATE"
	KindForbidden    Kind = "FORBIDDEN"
	KindNotFound     Kind = "NOT_FOUND"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindRateLimited  Kind = "RATE_LIMITED"
	KindInternal     Kind = "INTERNAL"
)

var statusByKind = map[Kind]int{
	KindValidation:   fiber.StatusBadRequest,
	KindConflict:     fiber.StatusConflict,
	KindInvalidState: fiber.StatusUnprocessableEntity,
	KindForbidden:    fiber.StatusForbidden,
	KindNotFound:     fiber.StatusNotFound,
	KindUnauthorized: fiber.StatusUnauthorized,
	KindRateLimited:  fiber.StatusTooManyRequests,
	KindInternal:     fiber.StatusInternalServerError,
}

// AppError is the error type every service returns to its caller.
type AppError struct {
	Kind    Kind              `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) Status() int {
	if code, ok := statusByKind[e.Kind]; ok {
		return code
	}
	return fiber.StatusInternalServerError
}

func NewError(kind Kind, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func ValidationError(format string, args ...any) *AppError {
	return NewError(KindValidation, format, args...)
}

func ConflictError(format string, args ...any) *AppError {
	return NewError(KindConflict, format, args...)
}

func InvalidStateError(format string, args ...any) *AppError {
	return NewError(KindInvalidState, format, args...)
}

func ForbiddenError(format string, args ...any) *AppError {
	return NewError(KindForbidden, format, args...)
}

func NotFoundError(format string, args ...any) *AppError {
	return NewError(KindNotFound, format, args...)
}

func UnauthorizedError(format string, args ...any) *AppError {
	return NewError(KindUnauthorized, format, args...)
}

// InternalError hides err from clients but keeps it for logs.
func InternalError(err error, format string, args ...any) *AppError {
	e := NewError(KindInternal, format, args...)
	e.Err = err
	return e
}

// KindOf returns the kind of an AppError anywhere in err's chain.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ErrorBody renders err in the response envelope used by every endpoint.
func ErrorBody(err error) (int, fiber.Map) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		body := fiber.Map{
			"status":  "error",
			"code":    appErr.Status(),
			"kind":    appErr.Kind,
			"message": appErr.Message,
		}
		if len(appErr.Fields) > 0 {
			body["fields"] = appErr.Fields
		}
		return appErr.Status(), body
	}
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}
	return code, fiber.Map{
		"status":  "error",
		"code":    code,
		"kind":    kindForStatus(code),
		"message": message,
	}
}

func kindForStatus(code int) Kind {
	for kind, status := range statusByKind {
		if status == code {
			return kind
		}
	}
	return KindInternal
}
