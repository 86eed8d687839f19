package core

import "time"

// EventKind is a notification the core emits to sessions.
type EventKind int

const (
	// EventJoinedMeeting confirms a join to the joining session only.
	EventJoinedMeeting EventKind = iota
	// EventUserJoined notifies a room that a participant joined.
	EventUserJoined
	// EventNewMessage delivers a chat message to the whole room,
	// including the sender.
	EventNewMessage
	// EventUserTyping propagates a typing indicator to everyone but
	// the typist.
	EventUserTyping
	// EventHandRaised propagates a hand-raise toggle to the room.
	EventHandRaised
	// EventReaction propagates an emoji reaction to the room.
	EventReaction
	// EventUserLeft notifies a room that a participant disconnected or
	// moved to another meeting.
	EventUserLeft
	// EventError reports a rejected action back to the acting session.
	EventError
)

// Event is sent to sessions to describe what happened in the meeting.
type Event struct {
	Kind      EventKind
	MeetingID string
	RoomName  string
	UserID    int64
	UserName  string
	Message   *Message // EventNewMessage only
	IsTyping  bool
	IsRaised  bool
	Emoji     string
	At        time.Time
	Error     *CoreError // EventError only
}
