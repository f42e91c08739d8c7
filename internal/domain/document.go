package domain

import "time"

// Limits holds the configurable validation bounds stored in the document's
// "info" section. Invariant: min <= max for each pair.
type Limits struct {
	MinUsernameLength int `json:"minUsernameLength"`
	MaxUsernameLength int `json:"maxUsernameLength"`
	MinPasswordLength int `json:"minPasswordLength"`
	MaxPasswordLength int `json:"maxPasswordLength"`
	MinChatNameLength int `json:"minChatNameLength"`
	MaxChatNameLength int `json:"maxChatNameLength"`
	MinChatUserCount  int `json:"minChatUserCount"`
	MaxChatUserCount  int `json:"maxChatUserCount"`
}

// DefaultLimits returns the compiled default validation bounds.
func DefaultLimits() Limits {
	return Limits{
		MinUsernameLength: 4,
		MaxUsernameLength: 30,
		MinPasswordLength: 6,
		MaxPasswordLength: 30,
		MinChatNameLength: 1,
		MaxChatNameLength: 64,
		MinChatUserCount:  2,
		MaxChatUserCount:  100,
	}
}

// Message is a single chat message. Messages are append-only.
type Message struct {
	SenderID UserID    `json:"senderUserId"`
	SentAt   time.Time `json:"sentAt"`
	Body     string    `json:"body"`
}

// User is a registered account. Users are created once and never deleted;
// the document's users sequence is append-only and never compacted.
//
// Friends and PendingRequests are ID sets represented as slices for stable
// serialization. All mutations of the two sets go through the friend-pair
// state machine in friendship.go.
type User struct {
	ID              UserID    `json:"id"`
	Name            string    `json:"name"`
	PasswordSecret  string    `json:"passwordSecret"`
	CreatedAt       time.Time `json:"createdAt"`
	Friends         []UserID  `json:"friends"`
	PendingRequests []UserID  `json:"pendingRequests"`
}

// Chat is a named conversation between a fixed-or-growing set of members.
// Chats are created once and never deleted.
type Chat struct {
	ID       ChatID    `json:"id"`
	Name     string    `json:"name"`
	Members  []UserID  `json:"memberUsers"`
	Messages []Message `json:"messages"`
}

// IsMember reports whether the given user belongs to the chat.
func (c *Chat) IsMember(id UserID) bool {
	for _, m := range c.Members {
		if m == id {
			return true
		}
	}
	return false
}

// Document is the entire persisted state tree. One instance is loaded,
// mutated, and persisted per operation under a process-wide lock.
type Document struct {
	Info  Limits `json:"info"`
	Users []User `json:"users"`
	Chats []Chat `json:"chats"`
}

// UserByID returns a pointer into the document's users sequence, or nil.
// Position in the sequence is a storage detail; the ID is the identity.
func (d *Document) UserByID(id UserID) *User {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

// ChatByID returns a pointer into the document's chats sequence, or nil.
func (d *Document) ChatByID(id ChatID) *Chat {
	for i := range d.Chats {
		if d.Chats[i].ID == id {
			return &d.Chats[i]
		}
	}
	return nil
}

// FirstUserByName returns the first user with the given name, or nil.
// Names are not unique; first match wins.
func (d *Document) FirstUserByName(name string) *User {
	for i := range d.Users {
		if d.Users[i].Name == name {
			return &d.Users[i]
		}
	}
	return nil
}
