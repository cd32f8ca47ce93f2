package database

import (
	"context"
	"sync"
	"time"

	"autotrip/models"
)

// MemoryStore keeps sessions in process memory. Sessions are lost on restart.
type MemoryStore struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

func (ms *MemoryStore) Create(_ context.Context, s *Session) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	ms.sessions[s.ID] = s.Clone()
	return nil
}

func (ms *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	s, ok := ms.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (ms *MemoryStore) Update(_ context.Context, s *Session) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	if _, ok := ms.sessions[s.ID]; !ok {
		return ErrSessionNotFound
	}
	s.UpdatedAt = time.Now().UTC()
	ms.sessions[s.ID] = s.Clone()
	return nil
}

func (ms *MemoryStore) UpdateItinerary(_ context.Context, id, status, errMsg string, it *models.Itinerary) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	s, ok := ms.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	next := s.Clone()
	next.ItineraryStatus = status
	next.ItineraryError = errMsg
	next.Itinerary = nil
	if it != nil {
		next.Itinerary = (&Session{Itinerary: it}).Clone().Itinerary
	}
	next.UpdatedAt = time.Now().UTC()
	ms.sessions[id] = next
	return nil
}

func (ms *MemoryStore) Ping(context.Context) error { return nil }

func (ms *MemoryStore) Close() error { return nil }

func (ms *MemoryStore) Kind() string { return "memory" }
