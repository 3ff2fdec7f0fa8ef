package session

import (
	"sync"

	"github.com/google/uuid"
)

type Registry struct {
	sessions map[uuid.UUID]*Session
	mu       sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
	}
}

func (r *Registry) AddSession(id uuid.UUID, session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = session
}

func (r *Registry) GetSession(id uuid.UUID) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// GetSessionByAddr returns the session of the client connected from addr.
func (r *Registry) GetSessionByAddr(addr string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, session := range r.sessions {
		if session.clientConn.RemoteAddr() == addr {
			return session
		}
	}
	return nil
}

func (r *Registry) RemoveSession(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// remove removes session if it is still registered and reports whether it was.
func (r *Registry) remove(session *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[session.id] != session {
		return false
	}
	delete(r.sessions, session.id)
	return true
}

func (r *Registry) GetSessions() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]*Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}

// Len ...
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
