package runtime

import (
	"synaptik/contract"
	"synaptik/domain"
	"sync"
)

type Set[K comparable] map[K]struct{}

type connection struct {
	userID   domain.UserID
	sink     contract.EventSink
	channels Set[domain.ChannelKey]
}

// Registry is the in-memory table of live connections.
// The lock is only held for map mutations, never while a sink is written to.
type Registry struct {
	mu          sync.RWMutex
	connections map[domain.ConnID]*connection
	users       map[domain.UserID]Set[domain.ConnID]     // presence refcount
	channels    map[domain.ChannelKey]Set[domain.ConnID] // channel members
}

var _ contract.IRegistry = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{
		connections: make(map[domain.ConnID]*connection),
		users:       make(map[domain.UserID]Set[domain.ConnID]),
		channels:    make(map[domain.ChannelKey]Set[domain.ConnID]),
	}
}

// Register adds a connection. For an identified user it reports whether this is the
// first live connection of that user, which is the online transition.
// Anonymous connections never count toward presence.
func (r *Registry) Register(connID domain.ConnID, userID domain.UserID, sink contract.EventSink) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.connections[connID]; exists {
		return false
	}
	r.connections[connID] = &connection{userID: userID, sink: sink, channels: make(Set[domain.ChannelKey])}
	if userID == "" {
		return false
	}
	conns, ok := r.users[userID]
	if !ok {
		conns = make(Set[domain.ConnID])
		r.users[userID] = conns
	}
	conns[connID] = struct{}{}
	return len(conns) == 1
}

// Unregister removes a connection from every channel it joined and from its user.
// last is true when the user has no live connection left, which is the offline transition.
// Unregistering an unknown connection is a no-op.
func (r *Registry) Unregister(connID domain.ConnID) (domain.UserID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.connections[connID]
	if !ok {
		return "", false
	}
	delete(r.connections, connID)
	for key := range conn.channels {
		r.removeFromChannel(key, connID)
	}
	if conn.userID == "" {
		return "", false
	}
	conns := r.users[conn.userID]
	delete(conns, connID)
	if len(conns) > 0 {
		return conn.userID, false
	}
	delete(r.users, conn.userID)
	return conn.userID, true
}

func (r *Registry) Lookup(connID domain.ConnID) (domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.connections[connID]
	if !ok {
		return domain.Session{}, false
	}
	return domain.Session{ConnID: connID, UserID: conn.userID}, true
}

// Join subscribes a connection to a channel. added is false when it already was,
// or when the connection is unknown.
func (r *Registry) Join(connID domain.ConnID, key domain.ChannelKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.connections[connID]
	if !ok {
		return false
	}
	if _, joined := conn.channels[key]; joined {
		return false
	}
	conn.channels[key] = struct{}{}
	members, ok := r.channels[key]
	if !ok {
		members = make(Set[domain.ConnID])
		r.channels[key] = members
	}
	members[connID] = struct{}{}
	return true
}

func (r *Registry) Leave(connID domain.ConnID, key domain.ChannelKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.connections[connID]
	if !ok {
		return false
	}
	if _, joined := conn.channels[key]; !joined {
		return false
	}
	delete(conn.channels, key)
	r.removeFromChannel(key, connID)
	return true
}

func (r *Registry) IsJoined(connID domain.ConnID, key domain.ChannelKey) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.connections[connID]
	if !ok {
		return false
	}
	_, joined := conn.channels[key]
	return joined
}

// SinksForChannel returns a snapshot of the sinks subscribed to key, minus exclude.
// Returns nil if nobody joined the channel.
func (r *Registry) SinksForChannel(key domain.ChannelKey, exclude domain.ConnID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.channels[key]
	if !ok {
		return nil
	}
	var sinks []contract.EventSink
	for connID := range members {
		if connID == exclude {
			continue
		}
		if conn, exists := r.connections[connID]; exists {
			sinks = append(sinks, conn.sink)
		}
	}
	return sinks
}

func (r *Registry) AllSinks() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sinks := make([]contract.EventSink, 0, len(r.connections))
	for _, conn := range r.connections {
		sinks = append(sinks, conn.sink)
	}
	return sinks
}

func (r *Registry) ConnectionCount(userID domain.UserID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users[userID])
}

func (r *Registry) Stats() contract.RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return contract.RegistryStats{
		Connections: len(r.connections),
		Users:       len(r.users),
		Channels:    len(r.channels),
	}
}

// removeFromChannel must be called with the write lock held.
// Empty channels are dropped so the map does not grow with every conversation ever opened.
func (r *Registry) removeFromChannel(key domain.ChannelKey, connID domain.ConnID) {
	if members, ok := r.channels[key]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.channels, key)
		}
	}
}
