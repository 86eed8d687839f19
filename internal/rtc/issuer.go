package rtc

import "context"

// JoinInfo contains what a client needs to join the media room for a
// meeting.
type JoinInfo struct {
	URL      string `json:"url"`       // media server WebSocket URL
	Token    string `json:"token"`     // join token
	RoomName string `json:"room_name"` // media room name
	Identity string `json:"identity"`  // participant identity in the room
}

// TokenIssuer abstracts the media backend. Video and audio transport
// are delegated entirely to the external RTC service; this core only
// signs join credentials.
type TokenIssuer interface {
	// IssueJoinToken creates join credentials for a participant of the
	// given meeting.
	IssueJoinToken(ctx context.Context, meetingID string, userID int64, userName string) (*JoinInfo, error)
}
