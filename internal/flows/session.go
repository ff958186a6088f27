package flows

import (
	"sync"

	"fishfarm-bot/internal/models"
)

// FlowData is the per-flow conversation payload. Exactly one concrete
// type is live at a time; switching flows replaces it wholesale.
type FlowData interface {
	flowData()
}

// Session is the per-chat conversation state. Identity survives flow
// resets and cancellation; everything else is scoped to the active flow.
type Session struct {
	mu sync.Mutex

	UserID   int64
	Identity *models.User
	Flow     string
	State    string
	Data     FlowData
}

// Reset clears the active flow but keeps the authenticated identity.
func (s *Session) Reset() {
	s.Flow = ""
	s.State = ""
	s.Data = nil
}

// Manager holds one session per chat, in memory. The bot owns a single
// chat with each user, so losing sessions on restart only drops
// half-finished conversations.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[int64]*Session)}
}

// GetOrCreate returns the chat's session, creating an empty one on first
// contact.
func (m *Manager) GetOrCreate(userID int64) *Session {
	m.mu.RLock()
	s, ok := m.sessions[userID]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok = m.sessions[userID]; ok {
		return s
	}
	s = &Session{UserID: userID}
	m.sessions[userID] = s
	return s
}

// Peek returns the session without creating one.
func (m *Manager) Peek(userID int64) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[userID]
}
