// Package httperr defines the wire format for API errors: a stable machine
// code, a human message and an optional detail, serialized as JSON.
package httperr

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Status  int    `json:"-"`
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// WithDetail returns a copy with the detail set. The sentinel errors below
// are shared, so they are never mutated in place.
func (e *Error) WithDetail(detail string) *Error {
	clone := *e
	clone.Detail = detail
	return &clone
}

var (
	ErrBadRequest   = &Error{Status: http.StatusBadRequest, Code: "bad_request", Message: "Bad Request"}
	ErrUnauthorized = &Error{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "Unauthorized"}
	ErrForbidden    = &Error{Status: http.StatusForbidden, Code: "forbidden", Message: "Forbidden"}
	ErrNotFound     = &Error{Status: http.StatusNotFound, Code: "not_found", Message: "Not Found"}
	ErrConflict     = &Error{Status: http.StatusConflict, Code: "conflict", Message: "Conflict"}
	ErrInternal     = &Error{Status: http.StatusInternalServerError, Code: "internal", Message: "Internal Server Error"}
)

// Write sends err to the client. Errors that are not *Error are reported as
// a generic 500 so internals never leak onto the wire.
func Write(w http.ResponseWriter, err error) {
	apiErr, ok := err.(*Error)
	if !ok {
		apiErr = ErrInternal
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(apiErr.Status)
	_ = json.NewEncoder(w).Encode(apiErr)
}
