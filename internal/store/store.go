package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable is returned when the durable backend is unreachable.
	ErrUnavailable = errors.New("store unavailable")
)

// Meeting is the slice of the meeting record this core reads. Meeting
// lifecycle (scheduling, status transitions) is owned elsewhere; this
// package only resolves existence and basic metadata.
type Meeting struct {
	ID        string
	Title     string
	HostID    int64
	CreatedAt time.Time
}

// Message represents a persisted chat message in a meeting.
type Message struct {
	ID        int64
	MeetingID string
	UserID    int64
	UserName  string
	Body      string
	CreatedAt time.Time
}

// MessageStore handles chat message persistence.
type MessageStore interface {
	// SaveMessage appends a message to the meeting's log and assigns
	// its monotonic ID.
	SaveMessage(ctx context.Context, msg *Message) error

	// ListMessages retrieves messages for a meeting in ascending
	// (created_at, id) order. If beforeID is provided, only messages
	// older than that ID are returned. Limit caps the result size.
	ListMessages(ctx context.Context, meetingID string, limit int, beforeID *int64) ([]*Message, error)
}

// MeetingStore resolves meetings owned by the scheduling service.
type MeetingStore interface {
	// MeetingExists reports whether a meeting with the given id exists.
	MeetingExists(ctx context.Context, id string) (bool, error)

	// GetMeeting retrieves a meeting by ID.
	GetMeeting(ctx context.Context, id string) (*Meeting, error)

	// CreateMeeting inserts a meeting record. Used by seeding and tests;
	// the scheduling service owns the real lifecycle.
	CreateMeeting(ctx context.Context, m *Meeting) error
}

// Store aggregates all storage interfaces.
type Store interface {
	MessageStore
	MeetingStore

	// Close closes the underlying database connection.
	Close() error
}
