package chat

import "sync"

// Hub hands out one session per user so that conversations never share
// history. Safe for concurrent use; the sessions themselves serialize their
// own question processing.
type Hub struct {
	mu       sync.Mutex
	svc      *Service
	sessions map[string]*Session
}

// NewHub builds an empty session hub backed by svc.
func NewHub(svc *Service) *Hub {
	return &Hub{
		svc:      svc,
		sessions: map[string]*Session{},
	}
}

// Session returns the existing session for userID, creating it on first use.
func (h *Hub) Session(userID string) *Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	session, ok := h.sessions[userID]
	if !ok {
		session = h.svc.NewSession()
		h.sessions[userID] = session
	}
	return session
}

// Count reports the number of active sessions.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}
