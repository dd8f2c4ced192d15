package app

import (
	"sync"

	"github.com/JpythonS/clubhouse/internal/domain"
)

// SessionStore owns the two cross-referencing registries. The single mutex
// covers each whole coordinator operation; the multi-step read-modify-write
// sequences (succession in particular) are not individually atomic.
type SessionStore struct {
	mu    sync.Mutex
	users *Registry[domain.UserID, domain.Attendee]
	rooms *Registry[domain.RoomID, domain.Room]
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		users: NewRegistry[domain.UserID, domain.Attendee](nil),
		rooms: NewRegistry[domain.RoomID](domain.Room.WithAggregates),
	}
}

// OnRoomsChange registers the rooms observer, fired synchronously on every
// room set/delete with the full room list.
func (s *SessionStore) OnRoomsChange(fn Observer[domain.Room]) {
	s.rooms.OnChange(fn)
}

// RoomList snapshots all active rooms in creation order.
func (s *SessionStore) RoomList() []domain.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms.Values()
}
