package app

import "github.com/JpythonS/clubhouse/internal/domain"

// Event names shared by the coordinator and the signal adapter.
const (
	EventJoinRoom              = "join-room"
	EventSpeakRequest          = "speak-request"
	EventSpeakAnswer           = "speak-answer"
	EventUserConnected         = "user-connected"
	EventUserDisconnected      = "user-disconnected"
	EventUpgradeUserPermission = "upgrade-user-permission"
	EventLobbyUpdated          = "lobby-updated"
)

// Emitter is the outbound transport consumed by the coordinator and the lobby
// broadcaster. Implementations must not call back into the SessionStore: the
// coordinator emits while holding the store mutex.
type Emitter interface {
	// ToUser delivers to a single connection.
	ToUser(id domain.UserID, event string, payload any)
	// ToUsers delivers to each listed connection.
	ToUsers(ids []domain.UserID, event string, payload any)
	// ToLobby delivers to every lobby subscriber.
	ToLobby(event string, payload any)
}
