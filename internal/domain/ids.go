// Package domain contains pure business logic and types.
// No infrastructure dependencies allowed - this is the innermost ring.
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// UserID is a value object representing a unique user identifier.
// It is generated once at registration and never changes, decoupling a
// user's identity from its position in the document's users sequence.
type UserID struct {
	value string
}

// NewUserID creates a UserID from a raw string, validating it is a valid UUID.
func NewUserID(raw string) (UserID, error) {
	if raw == "" {
		return UserID{}, ErrEmptyID
	}
	if _, err := uuid.Parse(raw); err != nil {
		return UserID{}, fmt.Errorf("invalid user ID %q: %w", raw, ErrInvalidID)
	}
	return UserID{value: raw}, nil
}

// MustUserID creates a UserID, panicking on invalid input. Use only in tests.
func MustUserID(raw string) UserID {
	id, err := NewUserID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// GenerateUserID creates a new random UserID.
func GenerateUserID() UserID {
	return UserID{value: uuid.NewString()}
}

func (id UserID) String() string { return id.value }
func (id UserID) IsZero() bool   { return id.value == "" }

// MarshalText implements encoding.TextMarshaler so UserIDs serialize as
// plain strings inside the persisted document.
func (id UserID) MarshalText() ([]byte, error) {
	return []byte(id.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. IDs loaded from an
// existing document are trusted; validation happens at the API boundary.
func (id *UserID) UnmarshalText(text []byte) error {
	id.value = string(text)
	return nil
}

// ChatID is a value object representing a unique chat identifier.
type ChatID struct {
	value string
}

// NewChatID creates a ChatID from a raw string, validating it is a valid UUID.
func NewChatID(raw string) (ChatID, error) {
	if raw == "" {
		return ChatID{}, ErrEmptyID
	}
	if _, err := uuid.Parse(raw); err != nil {
		return ChatID{}, fmt.Errorf("invalid chat ID %q: %w", raw, ErrInvalidID)
	}
	return ChatID{value: raw}, nil
}

// MustChatID creates a ChatID, panicking on invalid input. Use only in tests.
func MustChatID(raw string) ChatID {
	id, err := NewChatID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// GenerateChatID creates a new random ChatID.
func GenerateChatID() ChatID {
	return ChatID{value: uuid.NewString()}
}

func (id ChatID) String() string { return id.value }
func (id ChatID) IsZero() bool   { return id.value == "" }

// MarshalText implements encoding.TextMarshaler.
func (id ChatID) MarshalText() ([]byte, error) {
	return []byte(id.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ChatID) UnmarshalText(text []byte) error {
	id.value = string(text)
	return nil
}
