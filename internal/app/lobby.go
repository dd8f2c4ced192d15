package app

import (
	"github.com/rs/zerolog/log"

	"github.com/JpythonS/clubhouse/internal/domain"
)

// LobbyBroadcaster keeps the lobby view live: it subscribes to the rooms
// registry and republishes the full room list to the lobby fan-out on every
// mutation, and pushes a one-time snapshot to each new lobby connection.
type LobbyBroadcaster struct {
	store   *SessionStore
	emitter Emitter
}

func NewLobbyBroadcaster(store *SessionStore, emitter Emitter) *LobbyBroadcaster {
	b := &LobbyBroadcaster{store: store, emitter: emitter}
	store.OnRoomsChange(b.notify)
	return b
}

// notify runs synchronously inside the store's critical section; it only
// emits outward and never mutates the registry.
func (b *LobbyBroadcaster) notify(rooms []domain.Room) {
	log.Debug().Str("module", "app.lobby").Int("rooms", len(rooms)).Msg("lobby updated")
	b.emitter.ToLobby(EventLobbyUpdated, rooms)
}

// OnNewConnection hands the current room list to a single fresh lobby
// connection through send.
func (b *LobbyBroadcaster) OnNewConnection(send func(event string, payload any)) {
	send(EventLobbyUpdated, b.store.RoomList())
}
