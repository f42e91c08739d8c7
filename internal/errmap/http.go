// Package errmap translates domain and pathstore errors into transport
// error shapes. The HTTP status class is a categorization convenience for
// the transport, not domain semantics.
package errmap

import (
	"errors"
	"net/http"

	"github.com/averso/socialstore/internal/domain"
	"github.com/averso/socialstore/pkg/pathstore"
)

// HTTPError represents an HTTP error response.
type HTTPError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e HTTPError) Error() string {
	return e.Message
}

// httpMapping defines an error to HTTP status/code mapping.
type httpMapping struct {
	err        error
	statusCode int
	code       string
}

// httpMappings maps sentinel errors to HTTP status codes and stable,
// machine-checkable error codes. Order matters: first match wins
// (via errors.Is).
var httpMappings = []httpMapping{
	// Resource errors — 404
	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{pathstore.ErrNotFound, http.StatusNotFound, "NO_VALUE_AT_PATH"},

	// Validation errors — 400
	{domain.ErrInvalidInput, http.StatusBadRequest, "INVALID_ARGUMENT"},
	{domain.ErrEmptyID, http.StatusBadRequest, "INVALID_ARGUMENT"},
	{domain.ErrInvalidID, http.StatusBadRequest, "INVALID_ARGUMENT"},
	{domain.ErrSelfRequest, http.StatusBadRequest, "SELF_REQUEST"},
	{pathstore.ErrEmptyPath, http.StatusBadRequest, "PATH_REQUIRED"},
	{pathstore.ErrMissingParent, http.StatusBadRequest, "MISSING_PARENT"},

	// State-machine conflicts — 409
	{domain.ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS"},
	{domain.ErrAlreadyMember, http.StatusConflict, "ALREADY_MEMBER"},
	{domain.ErrNotMember, http.StatusConflict, "NOT_MEMBER"},
	{domain.ErrAlreadyFriends, http.StatusConflict, "ALREADY_FRIENDS"},
	{domain.ErrRequestAlreadySent, http.StatusConflict, "REQUEST_ALREADY_SENT"},
	{domain.ErrNoPendingRequest, http.StatusConflict, "NO_PENDING_REQUEST"},

	// Storage failures — 500
	{domain.ErrStorage, http.StatusInternalServerError, "STORAGE_FAILURE"},
}

// ToHTTPError converts an error to an HTTP error. Unrecognized errors map
// to 500 INTERNAL without leaking their message.
func ToHTTPError(err error) HTTPError {
	if err == nil {
		return HTTPError{StatusCode: http.StatusOK}
	}
	for _, m := range httpMappings {
		if errors.Is(err, m.err) {
			return HTTPError{StatusCode: m.statusCode, Code: m.code, Message: err.Error()}
		}
	}
	return HTTPError{
		StatusCode: http.StatusInternalServerError,
		Code:       "INTERNAL",
		Message:    "internal error",
	}
}
