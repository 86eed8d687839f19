// Package proto defines the wire contract spoken over the meeting
// WebSocket: event-name/payload envelopes in both directions.
package proto

import "encoding/json"

// Inbound is the envelope for events coming from the client.
type Inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Inbound event names.
const (
	InboundJoinMeeting = "join-meeting"
	InboundSendMessage = "send-message"
	InboundTyping      = "typing"
	InboundRaiseHand   = "raise-hand"
	InboundReaction    = "reaction"
)

// Outbound event names.
const (
	OutboundJoinedMeeting = "joined-meeting"
	OutboundUserJoined    = "user-joined"
	OutboundNewMessage    = "new-message"
	OutboundUserTyping    = "user-typing"
	OutboundHandRaised    = "hand-raised"
	OutboundReaction      = "reaction"
	OutboundUserLeft      = "user-left"
	OutboundError         = "error"
)

// JoinMeetingData binds the connection to a meeting room.
type JoinMeetingData struct {
	MeetingID string `json:"meetingId"`
	UserName  string `json:"userName,omitempty"`
}

// SendMessageData is a chat message from the client. MeetingID is
// optional when the session already sits in a room.
type SendMessageData struct {
	Message   string `json:"message"`
	MeetingID string `json:"meetingId,omitempty"`
}

// TypingData toggles the typing indicator.
type TypingData struct {
	MeetingID string `json:"meetingId,omitempty"`
	IsTyping  bool   `json:"isTyping"`
}

// RaiseHandData toggles the raised-hand state.
type RaiseHandData struct {
	MeetingID string `json:"meetingId,omitempty"`
	IsRaised  bool   `json:"isRaised"`
}

// ReactionData carries an emoji reaction.
type ReactionData struct {
	MeetingID string `json:"meetingId,omitempty"`
	Emoji     string `json:"emoji"`
}

// Outbound is the envelope for events sent to the client.
type Outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// JoinedMeetingData confirms a successful join to the joining session.
type JoinedMeetingData struct {
	MeetingID string `json:"meetingId"`
	RoomName  string `json:"roomName"`
	Message   string `json:"message"`
}

// UserJoinedData announces a new participant to the rest of the room.
type UserJoinedData struct {
	UserID    int64  `json:"userId"`
	UserName  string `json:"userName"`
	Timestamp string `json:"timestamp"`
}

// NewMessageData delivers a chat message to every room member.
type NewMessageData struct {
	ID        string `json:"id"`
	UserID    int64  `json:"userId"`
	UserName  string `json:"userName"`
	Message   string `json:"message"`
	MeetingID string `json:"meetingId"`
	Timestamp string `json:"timestamp"`
}

// UserTypingData propagates a typing indicator.
type UserTypingData struct {
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
	IsTyping bool   `json:"isTyping"`
}

// HandRaisedData propagates a hand-raise toggle.
type HandRaisedData struct {
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
	IsRaised bool   `json:"isRaised"`
}

// ReactionEventData propagates an emoji reaction.
type ReactionEventData struct {
	UserID    int64  `json:"userId"`
	UserName  string `json:"userName"`
	Emoji     string `json:"emoji"`
	Timestamp string `json:"timestamp"`
}

// UserLeftData announces a departure to the remaining room members.
type UserLeftData struct {
	UserID    int64  `json:"userId"`
	UserName  string `json:"userName"`
	Timestamp string `json:"timestamp"`
}

// ErrorData describes a rejected action. The connection stays open;
// only authentication failures terminate it.
type ErrorData struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}
