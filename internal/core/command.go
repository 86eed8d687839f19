package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinMeeting binds the session to a meeting room.
	CommandJoinMeeting CommandKind = iota
	// CommandSendMessage delivers a chat message to room participants.
	CommandSendMessage
	// CommandTyping propagates a typing indicator to the room.
	CommandTyping
	// CommandRaiseHand propagates a hand-raise toggle to the room.
	CommandRaiseHand
	// CommandReaction propagates an emoji reaction to the room.
	CommandReaction
)

// Command represents an action requested by a client session.
type Command struct {
	Kind      CommandKind
	MeetingID string
	UserName  string
	Body      string
	IsTyping  bool
	IsRaised  bool
	Emoji     string
}
