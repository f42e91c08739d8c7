package domain

import "errors"

// Sentinel errors for domain error conditions.
// Use errors.Is() for matching - never compare error strings.
var (
	// ID validation errors
	ErrEmptyID   = errors.New("ID cannot be empty")
	ErrInvalidID = errors.New("invalid ID format")

	// Resource errors
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")

	// Chat membership errors
	ErrNotMember     = errors.New("user is not a member of this chat")
	ErrAlreadyMember = errors.New("user is already a member of this chat")

	// Friend-request state machine errors
	ErrSelfRequest        = errors.New("cannot send a friend request to yourself")
	ErrAlreadyFriends     = errors.New("users are already friends")
	ErrRequestAlreadySent = errors.New("friend request already sent")
	ErrNoPendingRequest   = errors.New("no pending friend request from this user")

	// Storage errors
	ErrStorage = errors.New("document storage failure")

	// Configuration errors
	ErrConfigRequired = errors.New("required configuration key missing")
)

// conflictErrors enumerates errors that represent a valid request colliding
// with the current document state.
var conflictErrors = []error{
	ErrAlreadyExists,
	ErrAlreadyMember,
	ErrNotMember,
	ErrAlreadyFriends,
	ErrRequestAlreadySent,
	ErrNoPendingRequest,
}

// clientErrors enumerates all domain errors that represent client-side issues.
var clientErrors = []error{
	ErrEmptyID,
	ErrInvalidID,
	ErrNotFound,
	ErrInvalidInput,
	ErrSelfRequest,
	ErrAlreadyExists,
	ErrAlreadyMember,
	ErrNotMember,
	ErrAlreadyFriends,
	ErrRequestAlreadySent,
	ErrNoPendingRequest,
}

// IsClientError returns true if the error represents a client-side issue
// that will not succeed on retry without client-side changes.
func IsClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsConflict returns true if the error represents a state-machine violation
// rather than malformed input.
func IsConflict(err error) bool {
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFound returns true if the error represents a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsStorage returns true if the error originated in the document store
// adapter. Callers must reload before retrying.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}
