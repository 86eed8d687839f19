package core

import "sync"

// Registry is the process-wide mapping of room name to the set of
// connected sessions. It is an injected dependency, not a singleton, so
// tests can run isolated registries side by side. Rooms are created
// implicitly on first join and pruned when the last member leaves.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[*Session]struct{}
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]map[*Session]struct{}),
	}
}

// Join adds the session to the room's membership set. Joining a room
// the session is already in is a no-op. Returns true if newly added.
func (r *Registry) Join(room string, s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		members = make(map[*Session]struct{})
		r.rooms[room] = members
	}
	if _, exists := members[s]; exists {
		return false
	}
	members[s] = struct{}{}
	return true
}

// Leave removes the session from the room. The room entry is pruned
// when its membership set becomes empty. Returns true if removed.
func (r *Registry) Leave(room string, s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		return false
	}
	if _, exists := members[s]; !exists {
		return false
	}
	delete(members, s)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
	return true
}

// Broadcast sends an event to all current members of the room, or all
// but exclude when it is non-nil. Delivery is a non-blocking send that
// drops for slow consumers. Returns the number of recipients.
func (r *Registry) Broadcast(room string, event *Event, exclude *Session) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for member := range r.rooms[room] {
		if member == exclude {
			continue
		}
		select {
		case member.Events <- event:
			count++
		default:
			// Drop if slow consumer.
		}
	}
	return count
}

// Members returns a read-only snapshot of the room's membership.
func (r *Registry) Members(room string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]*Session, 0, len(r.rooms[room]))
	for member := range r.rooms[room] {
		members = append(members, member)
	}
	return members
}

// RoomCount reports how many rooms currently have members.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
