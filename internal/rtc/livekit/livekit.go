package livekit

import (
	"context"
	"fmt"
	"time"

	"github.com/livekit/protocol/auth"
	"github.com/vovakirdan/meetwire-server/internal/core"
	"github.com/vovakirdan/meetwire-server/internal/rtc"
)

// Issuer implements rtc.TokenIssuer using LiveKit as the media backend.
// LiveKit creates rooms on demand when the first participant joins, so
// issuing a token is the whole job.
type Issuer struct {
	apiKey    string
	apiSecret string
	wsURL     string
}

// New creates a LiveKit token issuer.
func New(apiKey, apiSecret, wsURL string) *Issuer {
	return &Issuer{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		wsURL:     wsURL,
	}
}

// IssueJoinToken signs a one-hour video grant scoped to the meeting's
// media room.
func (e *Issuer) IssueJoinToken(_ context.Context, meetingID string, userID int64, userName string) (*rtc.JoinInfo, error) {
	roomName := core.RoomName(meetingID)
	identity := fmt.Sprintf("user-%d", userID)

	at := auth.NewAccessToken(e.apiKey, e.apiSecret)
	grant := &auth.VideoGrant{
		RoomJoin: true,
		Room:     roomName,
	}
	at.AddGrant(grant).
		SetIdentity(identity).
		SetName(userName).
		SetValidFor(time.Hour)

	token, err := at.ToJWT()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &rtc.JoinInfo{
		URL:      e.wsURL,
		Token:    token,
		RoomName: roomName,
		Identity: identity,
	}, nil
}

// Ensure Issuer implements rtc.TokenIssuer
var _ rtc.TokenIssuer = (*Issuer)(nil)
