package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"
	"github.com/vovakirdan/meetwire-server/internal/auth"
	"github.com/vovakirdan/meetwire-server/internal/config"
	"github.com/vovakirdan/meetwire-server/internal/core"
	"github.com/vovakirdan/meetwire-server/internal/proto"
	"github.com/vovakirdan/meetwire-server/internal/utils"
)

// WSHandler is the gateway: it enforces origin admission, runs the
// token verifier as the connection-admission gate, upgrades the
// connection, and bridges it to a core.Session.
type WSHandler struct {
	hub            *core.Hub
	jwtConfig      *auth.JWTConfig
	allowedOrigins []string
	rateLimit      int
	log            *zerolog.Logger
}

// NewWSHandler builds the WebSocket gateway handler.
func NewWSHandler(hub *core.Hub, jwtConfig *auth.JWTConfig, cfg config.Config, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{
		hub:            hub,
		jwtConfig:      jwtConfig,
		allowedOrigins: cfg.AllowedOrigins,
		rateLimit:      cfg.MessageRateLimit,
		log:            logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	// Origin admission runs before authentication.
	if !originAllowed(r, h.allowedOrigins) {
		h.log.Warn().Str("origin", r.Header.Get("Origin")).Msg("ws connection refused: origin not allowed")
		stdhttp.Error(w, "origin not allowed", stdhttp.StatusForbidden)
		return
	}

	claims, err := auth.VerifyToken(h.jwtConfig, bearerCredential(r))
	if err != nil {
		if errors.Is(err, auth.ErrTokenMissing) {
			h.log.Warn().Msg("ws connection refused: no token provided")
			stdhttp.Error(w, "authentication error: no token provided", stdhttp.StatusUnauthorized)
			return
		}
		h.log.Warn().Err(err).Msg("ws connection refused: invalid token")
		stdhttp.Error(w, "authentication error: invalid token", stdhttp.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// Origin policy was already enforced above.
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	session := core.NewSession(utils.NewID(), claims.UserID, claims.Role)
	h.hub.RegisterSession(session)
	// Unregister runs on every disconnection path and is what removes
	// the session from its room and announces the departure.
	defer h.hub.UnregisterSession(session)
	defer close(session.Commands)

	h.log.Info().Str("session_id", session.ID).Int64("user_id", claims.UserID).Msg("ws client connected")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, session)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, session)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, session *core.Session) error {
	limiter := newRateLimiter(h.rateLimit)

	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		if !limiter.allow() {
			if err := wsjson.Write(ctx, conn, proto.Outbound{
				Event: proto.OutboundError,
				Data:  proto.ErrorData{Code: "rate_limited", Message: "Too many messages, slow down"},
			}); err != nil {
				return err
			}
			continue
		}

		cmd, protoErr, err := inboundToCommand(inbound)
		if err != nil {
			h.log.Warn().Err(err).Str("session_id", session.ID).Msg("failed to map inbound")
			return err
		}
		if protoErr != nil {
			if writeErr := wsjson.Write(ctx, conn, proto.Outbound{
				Event: proto.OutboundError,
				Data:  protoErr,
			}); writeErr != nil {
				return writeErr
			}
			continue
		}
		if cmd != nil {
			if err := enqueueCommand(ctx, session, cmd); err != nil {
				return err
			}
		}
	}
}

// enqueueCommand forwards a mapped command to the session's pump. It
// gives up when the connection context ends, so a stalled hub cannot
// wedge the read loop behind a full command buffer.
func enqueueCommand(ctx context.Context, session *core.Session, cmd *core.Command) error {
	select {
	case session.Commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, session *core.Session) error {
	for {
		select {
		case event, ok := <-session.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("session_id", session.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// bearerCredential extracts the token from the handshake query field or
// an Authorization: Bearer header.
func bearerCredential(r *stdhttp.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	return bearerToken(r.Header.Get("Authorization"))
}
