package ws

import "sync"

// Sender is the outbound half of a connection. Send must not block; it
// reports false when the frame could not be queued.
type Sender interface {
	Send(f *ServerFrame) bool
}

// Registry maps authenticated user ids to their live connections. A
// second authentication for the same id overwrites the first silently;
// the superseded connection is not notified.
type Registry struct {
	mu    sync.Mutex
	conns map[string]Sender
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]Sender)}
}

func (r *Registry) Register(userID string, s Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[userID] = s
}

// Unregister removes the registration only if s is still the current
// one. A connection superseded by a newer registration must not tear
// down its replacement on the way out.
func (r *Registry) Unregister(userID string, s Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conns[userID] == s {
		delete(r.conns, userID)
	}
}

// Lookup returns the current connection for the user, or nil.
func (r *Registry) Lookup(userID string) Sender {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conns[userID]
}

// Count returns the number of registered connections.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}
