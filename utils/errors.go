// utils/errors.go
package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies the expected, caller-recoverable failures of the
// ordering core. None of these are retried internally.
type ErrorKind string

const (
	KindInvalidState      ErrorKind = "INVALID_STATE"
	KindInvalidArgument   ErrorKind = "INVALID_ARGUMENT"
	KindConflict          ErrorKind = "CONFLICT"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindOutOfStock        ErrorKind = "OUT_OF_STOCK"
	KindOrderWindowClosed ErrorKind = "ORDER_WINDOW_CLOSED"
	KindTooEarly          ErrorKind = "TOO_EARLY"
	KindMenuLocked        ErrorKind = "MENU_LOCKED"
)

// AppError carries a kind alongside the human-readable message so the API
// layer can tell "sold out" apart from "ordering closed" apart from
// "menu locked".
type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func Errorf(kind ErrorKind, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...interface{}) *AppError {
	return Errorf(KindInvalidState, format, args...)
}

func InvalidArgument(format string, args ...interface{}) *AppError {
	return Errorf(KindInvalidArgument, format, args...)
}

func Conflict(format string, args ...interface{}) *AppError {
	return Errorf(KindConflict, format, args...)
}

func NotFound(format string, args ...interface{}) *AppError {
	return Errorf(KindNotFound, format, args...)
}

func OutOfStock(format string, args ...interface{}) *AppError {
	return Errorf(KindOutOfStock, format, args...)
}

func OrderWindowClosed(format string, args ...interface{}) *AppError {
	return Errorf(KindOrderWindowClosed, format, args...)
}

func TooEarly(format string, args ...interface{}) *AppError {
	return Errorf(KindTooEarly, format, args...)
}

func MenuLocked(format string, args ...interface{}) *AppError {
	return Errorf(KindMenuLocked, format, args...)
}

// KindOf returns the kind of err, or "" if err is not an AppError.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// HTTPStatus maps an error kind onto the status code the REST layer returns.
func HTTPStatus(kind ErrorKind) int {
	switch kind {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState, KindConflict, KindTooEarly, KindMenuLocked,
		KindOutOfStock, KindOrderWindowClosed:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
