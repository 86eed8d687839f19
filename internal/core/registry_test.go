package core

import (
	"sync"
	"testing"
	"time"
)

func TestRegistryJoinIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	alice := NewSession("a", 1, "")

	if !reg.Join("meeting-m1", alice) {
		t.Fatalf("first join should add the session")
	}
	if reg.Join("meeting-m1", alice) {
		t.Fatalf("duplicate join should be a no-op")
	}
	if got := len(reg.Members("meeting-m1")); got != 1 {
		t.Fatalf("expected 1 member, got %d", got)
	}
}

func TestRegistryLeavePrunesEmptyRooms(t *testing.T) {
	reg := NewRegistry()
	alice := NewSession("a", 1, "")
	bob := NewSession("b", 2, "")

	reg.Join("meeting-m1", alice)
	reg.Join("meeting-m1", bob)

	if !reg.Leave("meeting-m1", alice) {
		t.Fatalf("leave should remove a member")
	}
	if got := reg.RoomCount(); got != 1 {
		t.Fatalf("room should survive while members remain, got %d rooms", got)
	}

	reg.Leave("meeting-m1", bob)
	if got := reg.RoomCount(); got != 0 {
		t.Fatalf("empty room should be pruned, got %d rooms", got)
	}

	if reg.Leave("meeting-m1", bob) {
		t.Fatalf("leaving an unknown room should be a no-op")
	}
}

func TestRegistryBroadcastReachesEveryMember(t *testing.T) {
	reg := NewRegistry()
	sessions := []*Session{
		NewSession("a", 1, ""),
		NewSession("b", 2, ""),
		NewSession("c", 3, ""),
	}
	for _, s := range sessions {
		reg.Join("meeting-m1", s)
	}

	ev := &Event{Kind: EventNewMessage, MeetingID: "m1"}
	if got := reg.Broadcast("meeting-m1", ev, nil); got != 3 {
		t.Fatalf("expected 3 recipients, got %d", got)
	}
	for _, s := range sessions {
		if received := mustEvent(t, s.Events, EventNewMessage); received != ev {
			t.Fatalf("expected the broadcast event, got %+v", received)
		}
	}
}

func TestRegistryBroadcastExcludesSender(t *testing.T) {
	reg := NewRegistry()
	alice := NewSession("a", 1, "")
	bob := NewSession("b", 2, "")
	reg.Join("meeting-m1", alice)
	reg.Join("meeting-m1", bob)

	ev := &Event{Kind: EventUserTyping}
	if got := reg.Broadcast("meeting-m1", ev, alice); got != 1 {
		t.Fatalf("expected 1 recipient, got %d", got)
	}
	mustEvent(t, bob.Events, EventUserTyping)
	mustNoEvent(t, alice.Events, EventUserTyping, 50*time.Millisecond)
}

func TestRegistryBroadcastUnknownRoom(t *testing.T) {
	reg := NewRegistry()
	if got := reg.Broadcast("meeting-ghost", &Event{Kind: EventNewMessage}, nil); got != 0 {
		t.Fatalf("expected 0 recipients, got %d", got)
	}
}

func TestRegistryConcurrentJoinLeave(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s := NewSession("s", int64(n), "")
			for j := 0; j < 100; j++ {
				reg.Join("meeting-m1", s)
				reg.Broadcast("meeting-m1", &Event{Kind: EventUserTyping}, nil)
				reg.Leave("meeting-m1", s)
			}
		}(i)
	}
	wg.Wait()

	if got := reg.RoomCount(); got != 0 {
		t.Fatalf("expected all rooms pruned, got %d", got)
	}
}
