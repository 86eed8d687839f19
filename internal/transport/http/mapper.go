package http

import (
	"encoding/json"
	"time"

	"github.com/vovakirdan/meetwire-server/internal/core"
	"github.com/vovakirdan/meetwire-server/internal/proto"
)

// inboundToCommand maps a named inbound event to a hub command.
// Malformed payloads and unknown event names come back as an in-place
// protocol error; the connection stays open.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.ErrorData, error) {
	switch inbound.Event {
	case proto.InboundJoinMeeting:
		var data proto.JoinMeetingData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, invalidPayload(inbound.Event), nil
		}
		return &core.Command{
			Kind:      core.CommandJoinMeeting,
			MeetingID: data.MeetingID,
			UserName:  data.UserName,
		}, nil, nil
	case proto.InboundSendMessage:
		var data proto.SendMessageData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, invalidPayload(inbound.Event), nil
		}
		return &core.Command{
			Kind:      core.CommandSendMessage,
			MeetingID: data.MeetingID,
			Body:      data.Message,
		}, nil, nil
	case proto.InboundTyping:
		var data proto.TypingData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, invalidPayload(inbound.Event), nil
		}
		return &core.Command{
			Kind:      core.CommandTyping,
			MeetingID: data.MeetingID,
			IsTyping:  data.IsTyping,
		}, nil, nil
	case proto.InboundRaiseHand:
		var data proto.RaiseHandData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, invalidPayload(inbound.Event), nil
		}
		return &core.Command{
			Kind:      core.CommandRaiseHand,
			MeetingID: data.MeetingID,
			IsRaised:  data.IsRaised,
		}, nil, nil
	case proto.InboundReaction:
		var data proto.ReactionData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, invalidPayload(inbound.Event), nil
		}
		return &core.Command{
			Kind:      core.CommandReaction,
			MeetingID: data.MeetingID,
			Emoji:     data.Emoji,
		}, nil, nil
	default:
		return nil, &proto.ErrorData{Code: core.ErrCodeBadRequest, Message: "unknown event"}, nil
	}
}

func invalidPayload(event string) *proto.ErrorData {
	return &proto.ErrorData{Code: core.ErrCodeBadRequest, Message: "invalid payload for " + event}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventJoinedMeeting:
		return proto.Outbound{
			Event: proto.OutboundJoinedMeeting,
			Data: proto.JoinedMeetingData{
				MeetingID: event.MeetingID,
				RoomName:  event.RoomName,
				Message:   "Successfully joined meeting",
			},
		}
	case core.EventUserJoined:
		return proto.Outbound{
			Event: proto.OutboundUserJoined,
			Data: proto.UserJoinedData{
				UserID:    event.UserID,
				UserName:  event.UserName,
				Timestamp: event.At.Format(time.RFC3339),
			},
		}
	case core.EventNewMessage:
		msg := event.Message
		return proto.Outbound{
			Event: proto.OutboundNewMessage,
			Data: proto.NewMessageData{
				ID:        msg.ID,
				UserID:    msg.UserID,
				UserName:  msg.UserName,
				Message:   msg.Body,
				MeetingID: msg.MeetingID,
				Timestamp: msg.CreatedAt.Format(time.RFC3339),
			},
		}
	case core.EventUserTyping:
		return proto.Outbound{
			Event: proto.OutboundUserTyping,
			Data: proto.UserTypingData{
				UserID:   event.UserID,
				UserName: event.UserName,
				IsTyping: event.IsTyping,
			},
		}
	case core.EventHandRaised:
		return proto.Outbound{
			Event: proto.OutboundHandRaised,
			Data: proto.HandRaisedData{
				UserID:   event.UserID,
				UserName: event.UserName,
				IsRaised: event.IsRaised,
			},
		}
	case core.EventReaction:
		return proto.Outbound{
			Event: proto.OutboundReaction,
			Data: proto.ReactionEventData{
				UserID:    event.UserID,
				UserName:  event.UserName,
				Emoji:     event.Emoji,
				Timestamp: event.At.Format(time.RFC3339),
			},
		}
	case core.EventUserLeft:
		return proto.Outbound{
			Event: proto.OutboundUserLeft,
			Data: proto.UserLeftData{
				UserID:    event.UserID,
				UserName:  event.UserName,
				Timestamp: event.At.Format(time.RFC3339),
			},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Event: proto.OutboundError, Data: proto.ErrorData{Message: "unknown error"}}
		}
		return proto.Outbound{
			Event: proto.OutboundError,
			Data:  proto.ErrorData{Code: event.Error.Code, Message: event.Error.Message},
		}
	default:
		return proto.Outbound{Event: proto.OutboundError, Data: proto.ErrorData{Message: "unknown event"}}
	}
}
