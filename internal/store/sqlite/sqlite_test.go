package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/meetwire-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	st, err := New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSaveMessageAssignsMonotonicIDs(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 3; i++ {
		msg := &store.Message{
			MeetingID: "m1",
			UserID:    1,
			UserName:  "Alice",
			Body:      "hello",
			CreatedAt: time.Now(),
		}
		if err := st.SaveMessage(ctx, msg); err != nil {
			t.Fatalf("SaveMessage: %v", err)
		}
		if msg.ID <= last {
			t.Fatalf("expected monotonic ids, got %d after %d", msg.ID, last)
		}
		last = msg.ID
	}
}

func TestListMessagesAscendingWithIDTiebreak(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	// Same timestamp on every row: the id must decide the order.
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bodies := []string{"first", "second", "third"}
	for _, body := range bodies {
		msg := &store.Message{MeetingID: "m1", UserID: 1, UserName: "Alice", Body: body, CreatedAt: at}
		if err := st.SaveMessage(ctx, msg); err != nil {
			t.Fatalf("SaveMessage: %v", err)
		}
	}

	msgs, err := st.ListMessages(ctx, "m1", 10, nil)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	for i, body := range bodies {
		if msgs[i].Body != body {
			t.Fatalf("position %d: expected %q, got %q", i, body, msgs[i].Body)
		}
	}
	if !(msgs[0].ID < msgs[1].ID && msgs[1].ID < msgs[2].ID) {
		t.Fatalf("expected ascending ids, got %d %d %d", msgs[0].ID, msgs[1].ID, msgs[2].ID)
	}
}

func TestListMessagesScopedToMeeting(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for _, meeting := range []string{"m1", "m2", "m1"} {
		msg := &store.Message{MeetingID: meeting, UserID: 1, UserName: "Alice", Body: "x", CreatedAt: time.Now()}
		if err := st.SaveMessage(ctx, msg); err != nil {
			t.Fatalf("SaveMessage: %v", err)
		}
	}

	msgs, err := st.ListMessages(ctx, "m1", 10, nil)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages for m1, got %d", len(msgs))
	}
	for _, m := range msgs {
		if m.MeetingID != "m1" {
			t.Fatalf("leaked message from %q", m.MeetingID)
		}
	}
}

func TestListMessagesLimitAndBeforeCursor(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	ids := make([]int64, 0, 5)
	for i := 0; i < 5; i++ {
		msg := &store.Message{MeetingID: "m1", UserID: 1, UserName: "Alice", Body: "x", CreatedAt: time.Now()}
		if err := st.SaveMessage(ctx, msg); err != nil {
			t.Fatalf("SaveMessage: %v", err)
		}
		ids = append(ids, msg.ID)
	}

	page, err := st.ListMessages(ctx, "m1", 2, nil)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(page))
	}

	before := ids[2]
	older, err := st.ListMessages(ctx, "m1", 10, &before)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(older) != 2 {
		t.Fatalf("expected 2 messages before id %d, got %d", before, len(older))
	}
	for _, m := range older {
		if m.ID >= before {
			t.Fatalf("cursor leaked id %d (before %d)", m.ID, before)
		}
	}
}

func TestMeetingExistsAndGet(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.CreateMeeting(ctx, &store.Meeting{ID: "m1", Title: "Standup", HostID: 7}); err != nil {
		t.Fatalf("CreateMeeting: %v", err)
	}

	exists, err := st.MeetingExists(ctx, "m1")
	if err != nil || !exists {
		t.Fatalf("expected meeting to exist, got %v %v", exists, err)
	}
	exists, err = st.MeetingExists(ctx, "ghost")
	if err != nil || exists {
		t.Fatalf("expected meeting to be absent, got %v %v", exists, err)
	}

	m, err := st.GetMeeting(ctx, "m1")
	if err != nil {
		t.Fatalf("GetMeeting: %v", err)
	}
	if m.Title != "Standup" || m.HostID != 7 {
		t.Fatalf("unexpected meeting: %+v", m)
	}

	if _, err := st.GetMeeting(ctx, "ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
