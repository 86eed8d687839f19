package core

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vovakirdan/meetwire-server/internal/store"
)

// RoomName derives the registry room name from a meeting identifier.
func RoomName(meetingID string) string {
	return "meeting-" + meetingID
}

const defaultSaveTimeout = 2 * time.Second

type sessionCommand struct {
	sess *Session
	cmd  *Command
}

type unregisterReq struct {
	sess *Session
	done chan struct{}
}

// Hub is the session coordinator: a single event loop that owns every
// session state transition and every registry mutation. Per-session
// pump goroutines feed the central command channel, so one sender's
// stream is never reordered.
type Hub struct {
	registry *Registry
	store    store.Store
	log      *zerolog.Logger

	// SaveTimeout bounds how long a message save may delay fan-out.
	// Set before Run.
	SaveTimeout time.Duration

	register   chan *Session
	unregister chan unregisterReq
	commands   chan sessionCommand
	done       chan struct{}
}

// NewHub creates the coordinator. The store may be nil, in which case
// joins skip the meeting-existence check and messages are broadcast
// with fallback ids only.
func NewHub(registry *Registry, st store.Store, logger *zerolog.Logger) *Hub {
	return &Hub{
		registry:    registry,
		store:       st,
		log:         logger,
		SaveTimeout: defaultSaveTimeout,
		register:    make(chan *Session),
		unregister:  make(chan unregisterReq),
		commands:    make(chan sessionCommand, 64),
		done:        make(chan struct{}),
	}
}

// RegisterSession admits an authenticated session to the coordinator
// and starts its command pump.
func (h *Hub) RegisterSession(s *Session) {
	select {
	case h.register <- s:
	case <-h.done:
		return
	}

	go func() {
		for cmd := range s.Commands {
			select {
			case h.commands <- sessionCommand{sess: s, cmd: cmd}:
			case <-h.done:
				return
			}
		}
	}()
}

// UnregisterSession runs the disconnect transition. It blocks until the
// loop has removed the session from its room and announced the
// departure, so membership cleanup is synchronous with the disconnect.
// Safe to call more than once.
func (h *Hub) UnregisterSession(s *Session) {
	req := unregisterReq{sess: s, done: make(chan struct{})}
	select {
	case h.unregister <- req:
	case <-h.done:
		return
	}
	select {
	case <-req.done:
	case <-h.done:
	}
}

// Run processes registrations, disconnects and commands until the
// context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			return
		case s := <-h.register:
			h.log.Debug().Str("session_id", s.ID).Int64("user_id", s.UserID).Msg("session registered")
		case req := <-h.unregister:
			h.handleDisconnect(req.sess)
			close(req.done)
		case sc := <-h.commands:
			h.dispatch(ctx, sc.sess, sc.cmd)
		}
	}
}

// dispatch routes a command, rejecting kinds that are not valid in the
// session's current state instead of acting on partial state.
func (h *Hub) dispatch(ctx context.Context, s *Session, cmd *Command) {
	if s.State == StateClosed {
		return
	}

	switch cmd.Kind {
	case CommandJoinMeeting:
		h.handleJoin(ctx, s, cmd)
	case CommandSendMessage:
		h.handleSendMessage(ctx, s, cmd)
	case CommandTyping, CommandRaiseHand, CommandReaction:
		h.handlePresence(s, cmd)
	default:
		h.sendError(s, coreError(ErrCodeBadRequest, "unknown command"))
	}
}

func (h *Hub) handleJoin(ctx context.Context, s *Session, cmd *Command) {
	meetingID := strings.TrimSpace(cmd.MeetingID)
	if meetingID == "" {
		h.sendError(s, coreError(ErrCodeMissingMeetingID, "Meeting ID is required"))
		return
	}

	if h.store != nil {
		exists, err := h.store.MeetingExists(ctx, meetingID)
		if err != nil {
			// Lookup failure degrades to allowing the join.
			h.log.Warn().Err(err).Str("meeting_id", meetingID).Msg("meeting lookup failed, admitting join")
		} else if !exists {
			h.sendError(s, coreError(ErrCodeMeetingNotFound, "Meeting not found"))
			return
		}
	}

	name := strings.TrimSpace(cmd.UserName)
	if name == "" {
		name = "User " + strconv.FormatInt(s.UserID, 10)
	}

	room := RoomName(meetingID)
	if s.Room == room {
		s.Name = name
		h.sendJoined(s, meetingID, room)
		return
	}

	// A session belongs to at most one room: leave the old room first.
	if s.Room != "" {
		h.leaveRoom(s)
	}

	h.registry.Join(room, s)
	s.Room = room
	s.MeetingID = meetingID
	s.Name = name
	s.State = StateInRoom

	h.registry.Broadcast(room, &Event{
		Kind:      EventUserJoined,
		MeetingID: meetingID,
		UserID:    s.UserID,
		UserName:  s.Name,
		At:        time.Now(),
	}, s)

	h.sendJoined(s, meetingID, room)
	h.log.Info().Str("session_id", s.ID).Int64("user_id", s.UserID).Str("user_name", s.Name).Str("meeting_id", meetingID).Msg("joined meeting")
}

func (h *Hub) handleSendMessage(ctx context.Context, s *Session, cmd *Command) {
	if s.State != StateInRoom {
		h.sendError(s, coreError(ErrCodeNotInMeeting, "Join a meeting before sending messages"))
		return
	}
	if cmd.MeetingID != "" && cmd.MeetingID != s.MeetingID {
		h.sendError(s, coreError(ErrCodeNotInMeeting, "Not a participant of that meeting"))
		return
	}

	body := strings.TrimSpace(cmd.Body)
	if body == "" {
		h.sendError(s, coreError(ErrCodeEmptyMessage, "Message cannot be empty"))
		return
	}

	now := time.Now()
	msg := &Message{
		MeetingID: s.MeetingID,
		UserID:    s.UserID,
		UserName:  s.Name,
		Body:      body,
		CreatedAt: now,
	}
	msg.ID = h.persist(ctx, msg)

	h.registry.Broadcast(s.Room, &Event{
		Kind:      EventNewMessage,
		MeetingID: s.MeetingID,
		Message:   msg,
	}, nil)
}

// persist appends the message to the durable log and returns its id.
// Persistence is bounded and best-effort: on failure the message still
// fans out, carrying a fallback identifier, and the error goes to the
// logs rather than to the sender.
func (h *Hub) persist(ctx context.Context, msg *Message) string {
	if h.store == nil {
		return uuid.NewString()
	}

	saveCtx, cancel := context.WithTimeout(ctx, h.SaveTimeout)
	defer cancel()

	rec := &store.Message{
		MeetingID: msg.MeetingID,
		UserID:    msg.UserID,
		UserName:  msg.UserName,
		Body:      msg.Body,
		CreatedAt: msg.CreatedAt,
	}
	if err := h.store.SaveMessage(saveCtx, rec); err != nil {
		h.log.Error().Err(err).Str("meeting_id", msg.MeetingID).Msg("message save failed, broadcasting unpersisted")
		return uuid.NewString()
	}
	return strconv.FormatInt(rec.ID, 10)
}

func (h *Hub) handlePresence(s *Session, cmd *Command) {
	if s.State != StateInRoom {
		h.sendError(s, coreError(ErrCodeNotInMeeting, "Join a meeting first"))
		return
	}
	if cmd.MeetingID != "" && cmd.MeetingID != s.MeetingID {
		h.sendError(s, coreError(ErrCodeNotInMeeting, "Not a participant of that meeting"))
		return
	}

	switch cmd.Kind {
	case CommandTyping:
		// Typing echoes back to everyone but the typist.
		h.registry.Broadcast(s.Room, &Event{
			Kind:      EventUserTyping,
			MeetingID: s.MeetingID,
			UserID:    s.UserID,
			UserName:  s.Name,
			IsTyping:  cmd.IsTyping,
		}, s)
	case CommandRaiseHand:
		h.registry.Broadcast(s.Room, &Event{
			Kind:      EventHandRaised,
			MeetingID: s.MeetingID,
			UserID:    s.UserID,
			UserName:  s.Name,
			IsRaised:  cmd.IsRaised,
		}, nil)
	case CommandReaction:
		h.registry.Broadcast(s.Room, &Event{
			Kind:      EventReaction,
			MeetingID: s.MeetingID,
			UserID:    s.UserID,
			UserName:  s.Name,
			Emoji:     cmd.Emoji,
			At:        time.Now(),
		}, nil)
	}
}

func (h *Hub) handleDisconnect(s *Session) {
	if s.State == StateClosed {
		return
	}
	if s.Room != "" {
		h.leaveRoom(s)
	}
	s.State = StateClosed
	close(s.Events)
	h.log.Debug().Str("session_id", s.ID).Int64("user_id", s.UserID).Msg("session closed")
}

// leaveRoom removes the session from its current room and announces the
// departure to the remaining members.
func (h *Hub) leaveRoom(s *Session) {
	room := s.Room
	h.registry.Leave(room, s)
	h.registry.Broadcast(room, &Event{
		Kind:      EventUserLeft,
		MeetingID: s.MeetingID,
		UserID:    s.UserID,
		UserName:  s.Name,
		At:        time.Now(),
	}, nil)
	s.Room = ""
	s.MeetingID = ""
	s.State = StateAuthenticated
}

func (h *Hub) sendJoined(s *Session, meetingID, room string) {
	h.sendEvent(s, &Event{
		Kind:      EventJoinedMeeting,
		MeetingID: meetingID,
		RoomName:  room,
	})
}

func (h *Hub) sendError(s *Session, cerr *CoreError) {
	h.sendEvent(s, &Event{Kind: EventError, Error: cerr})
}

func (h *Hub) sendEvent(s *Session, ev *Event) {
	select {
	case s.Events <- ev:
	default:
		// Drop if slow consumer.
	}
}
