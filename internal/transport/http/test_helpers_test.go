package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/meetwire-server/internal/auth"
	"github.com/vovakirdan/meetwire-server/internal/config"
	"github.com/vovakirdan/meetwire-server/internal/core"
	"github.com/vovakirdan/meetwire-server/internal/log"
	"github.com/vovakirdan/meetwire-server/internal/rtc"
	"github.com/vovakirdan/meetwire-server/internal/store"
	"github.com/vovakirdan/meetwire-server/internal/store/sqlite"
)

func testJWTConfig() *auth.JWTConfig {
	return &auth.JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	}
}

// createTestStore creates an in-memory SQLite store seeded with one
// meeting, "m1".
func createTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if err := st.CreateMeeting(context.Background(), &store.Meeting{ID: "m1", Title: "Test Meeting", HostID: 1}); err != nil {
		t.Fatalf("failed to seed meeting: %v", err)
	}
	return st
}

func startTestServer(t *testing.T, issuer rtc.TokenIssuer) (*httptest.Server, store.Store) {
	t.Helper()

	st := createTestStore(t)

	hub := core.NewHub(core.NewRegistry(), st, log.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	cfg := config.Default()
	cfg.Addr = ":0"

	server := NewServer(hub, st, issuer, testJWTConfig(), cfg, log.Nop())

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, st
}

func testToken(t *testing.T, userID int64) string {
	t.Helper()

	token, err := auth.GenerateToken(testJWTConfig(), userID, "")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

// readEvent reads envelopes until one with the wanted event name
// arrives and returns its payload.
func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, want string) json.RawMessage {
	t.Helper()

	for {
		var outbound struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			t.Fatalf("read waiting for %q: %v", want, err)
		}
		if outbound.Event == want {
			return outbound.Data
		}
	}
}

func sendEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string, payload any) {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal %q payload: %v", event, err)
	}
	if err := wsjson.Write(ctx, conn, map[string]any{"event": event, "data": json.RawMessage(data)}); err != nil {
		t.Fatalf("write %q: %v", event, err)
	}
}
