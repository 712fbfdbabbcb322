package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mytheresa/catalog-admin/app/logging"
	"github.com/rs/zerolog/log"
)

const internalErrorMessage = "internal server error"

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

// OK writes {success:true, data}.
func OK(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Envelope{Success: true, Data: data})
}

// Message writes {success:true, message}.
func Message(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{Success: true, Message: message})
}

// Fail maps err to its status. Anything that is not an *Error is logged and
// collapsed into a 500 without internal detail.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		WriteJSON(w, apiErr.Status, Envelope{Success: false, Message: apiErr.Message})
		return
	}
	logging.FromContext(r.Context()).Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("unhandled error")
	WriteJSON(w, http.StatusInternalServerError, Envelope{Success: false, Message: internalErrorMessage})
}
