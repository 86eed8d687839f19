package core

import "fmt"

// SessionState tracks where a session is in its lifecycle. Transitions
// are owned exclusively by the hub loop.
type SessionState int

const (
	// StateAuthenticated means the connection passed the admission gate
	// but has not joined a meeting yet.
	StateAuthenticated SessionState = iota
	// StateInRoom means the session is bound to exactly one meeting room.
	StateInRoom
	// StateClosed means the session disconnected; no further events are
	// processed for it.
	StateClosed
)

// Session is the server-side state for one live connection from one
// authenticated participant.
type Session struct {
	ID     string
	UserID int64
	Role   string

	// Name, MeetingID, Room and State are owned by the hub loop.
	Name      string
	MeetingID string
	Room      string
	State     SessionState

	Commands chan *Command
	Events   chan *Event
}

// NewSession constructs a session for a verified principal with
// initialized channels.
func NewSession(id string, userID int64, role string) *Session {
	return &Session{
		ID:       id,
		UserID:   userID,
		Role:     role,
		Name:     fmt.Sprintf("User %d", userID),
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 16),
	}
}
