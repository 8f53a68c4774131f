package storage

import (
	"sort"
	"sync"

	"github.com/originlabs/ipminter/internal/metrics"
	"github.com/originlabs/ipminter/internal/session"
)

// SessionStore keeps wizard sessions in memory
type SessionStore struct {
	sessions map[string]*session.Session
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session.Session),
	}
}

func (s *SessionStore) Get(sessionID string) (*session.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, exists := s.sessions[sessionID]
	return sess, exists
}

// Set stores sess, closing any session it replaces
func (s *SessionStore) Set(sessionID string, sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, exists := s.sessions[sessionID]; exists {
		if old != sess {
			old.Close()
		}
	} else {
		metrics.ActiveSessions.Inc()
	}
	s.sessions[sessionID] = sess
}

// List returns all sessions, oldest first
func (s *SessionStore) List() []*session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*session.Session, 0, len(s.sessions))
	for _, v := range s.sessions {
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Delete removes and closes a session
func (s *SessionStore) Delete(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, exists := s.sessions[sessionID]
	if !exists {
		return false
	}
	sess.Close()
	delete(s.sessions, sessionID)
	metrics.ActiveSessions.Dec()
	return true
}

// CloseAll closes every session
func (s *SessionStore) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.Close()
		delete(s.sessions, id)
		metrics.ActiveSessions.Dec()
	}
}
