package core

import "time"

// Message is the domain model for a meeting chat message as broadcast
// to room members. ID is the store-assigned id, or a fallback
// identifier when persistence was unavailable.
type Message struct {
	ID        string
	MeetingID string
	UserID    int64
	UserName  string
	Body      string
	CreatedAt time.Time
}
