// Package api holds the JSON envelope and the typed errors shared by every
// HTTP handler.
package api

import (
	"fmt"
	"net/http"
)

// Error is a failure with a fixed HTTP status and a message safe to show to
// clients.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// BadRequest covers malformed input, invalid files and validation failures.
func BadRequest(format string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a duplicate name or SKU.
func Conflict(format string, args ...any) *Error {
	return &Error{Status: http.StatusConflict, Message: fmt.Sprintf(format, args...)}
}
