package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/meetwire-server/internal/rtc"
	"github.com/vovakirdan/meetwire-server/internal/store"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MeetingHandlers provides the REST endpoints hanging off a meeting:
// chat history and RTC join-token issuance.
type MeetingHandlers struct {
	store  store.Store
	issuer rtc.TokenIssuer
	log    *zerolog.Logger
}

// NewMeetingHandlers creates a new meeting handlers instance. issuer
// may be nil when no media backend is configured.
func NewMeetingHandlers(st store.Store, issuer rtc.TokenIssuer, logger *zerolog.Logger) *MeetingHandlers {
	return &MeetingHandlers{
		store:  st,
		issuer: issuer,
		log:    logger,
	}
}

// MessageResponse represents a chat message in API responses.
type MessageResponse struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	UserName  string `json:"userName"`
	Message   string `json:"message"`
	MeetingID string `json:"meetingId"`
	CreatedAt string `json:"createdAt"`
}

// ListMessages returns a meeting's chat history in ascending order.
// GET /api/meetings/:id/messages?limit=50&before=<id>
func (h *MeetingHandlers) ListMessages(c *gin.Context) {
	meetingID := c.Param("id")

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = min(parsed, maxHistoryLimit)
	}

	var beforeID *int64
	if raw := c.Query("before"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid before cursor"})
			return
		}
		beforeID = &parsed
	}

	exists, err := h.store.MeetingExists(c.Request.Context(), meetingID)
	if err != nil {
		h.log.Error().Err(err).Str("meeting_id", meetingID).Msg("failed to resolve meeting")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "meeting not found"})
		return
	}

	messages, err := h.store.ListMessages(c.Request.Context(), meetingID, limit, beforeID)
	if err != nil {
		h.log.Error().Err(err).Str("meeting_id", meetingID).Msg("failed to list messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		response = append(response, MessageResponse{
			ID:        msg.ID,
			UserID:    msg.UserID,
			UserName:  msg.UserName,
			Message:   msg.Body,
			MeetingID: msg.MeetingID,
			CreatedAt: msg.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	c.JSON(http.StatusOK, response)
}

// RTCToken issues media join credentials for a meeting participant.
// GET /api/meetings/:id/rtc-token?userName=Alice
func (h *MeetingHandlers) RTCToken(c *gin.Context) {
	if h.issuer == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "media backend not configured"})
		return
	}

	userID, exists := c.Get(ContextKeyUserID)
	if !exists {
		h.log.Error().Msg("user_id not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}
	uid, ok := userID.(int64)
	if !ok {
		h.log.Error().Msg("invalid user_id type in context")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	meetingID := c.Param("id")
	if _, err := h.store.GetMeeting(c.Request.Context(), meetingID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "meeting not found"})
			return
		}
		h.log.Error().Err(err).Str("meeting_id", meetingID).Msg("failed to resolve meeting")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	userName := c.Query("userName")
	if userName == "" {
		userName = "User " + strconv.FormatInt(uid, 10)
	}

	info, err := h.issuer.IssueJoinToken(c.Request.Context(), meetingID, uid, userName)
	if err != nil {
		h.log.Error().Err(err).Str("meeting_id", meetingID).Int64("user_id", uid).Msg("failed to issue rtc token")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, info)
}
