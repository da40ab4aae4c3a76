package session

import (
	"sync"
	"time"

	"github.com/prismaasset360/web/internal/models/common"
	"github.com/prismaasset360/web/pkg/errorcode"
)

// Data is what is kept for a session between requests.
type Data struct {
	ID           string
	AccessToken  string
	RefreshToken string
	User         *common.Usuario // The user object cached at login
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// Store persists sessions.
type Store interface {
	// Get returns the session with the ID or `errorcode.ErrorNotFound`.
	Get(id string) (*Data, error)

	// Save inserts or replaces the session.
	Save(data *Data) error

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(id string) error

	// DeleteExpired removes the sessions that expired before `now` and returns how many were removed.
	DeleteExpired(now time.Time) (int64, error)
}

// MemoryStore keeps sessions in process memory. Sessions are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Data
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Data),
	}
}

func (s *MemoryStore) Get(id string) (*Data, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.sessions[id]
	if !ok {
		return nil, errorcode.ErrorNotFound
	}

	return &data, nil
}

func (s *MemoryStore) Save(data *Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[data.ID] = *data
	return nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) DeleteExpired(now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for id, data := range s.sessions {
		if data.ExpiresAt.Before(now) {
			delete(s.sessions, id)
			count++
		}
	}

	return count, nil
}
