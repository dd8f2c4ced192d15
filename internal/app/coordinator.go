package app

import (
	"github.com/rs/zerolog/log"

	"github.com/JpythonS/clubhouse/internal/domain"
)

// Coordinator runs the room lifecycle: join, disconnect with owner
// succession, speak-request relay and speak-answer permission changes.
// Every operation holds the store mutex end to end; events referencing
// unknown users or rooms are silent no-ops, they are expected races between
// disconnects and in-flight messages.
type Coordinator struct {
	store   *SessionStore
	emitter Emitter
}

func NewCoordinator(store *SessionStore, emitter Emitter) *Coordinator {
	return &Coordinator{store: store, emitter: emitter}
}

// Join puts the caller into the room, creating it when unknown. The first
// attendee into a brand-new room is owner and speaker; later joiners start as
// listeners. Existing members are told about the newcomer and the newcomer
// gets the full membership list back.
func (c *Coordinator) Join(sid domain.UserID, roomInfo domain.Room, user domain.Attendee) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	existed := c.store.rooms.Has(roomInfo.ID)

	current, _ := c.store.users.Get(sid)
	att := current.Merge(user)
	att.ID = sid
	att.RoomID = roomInfo.ID
	att.IsSpeaker = !existed
	c.store.users.Set(sid, att)

	var room domain.Room
	if existed {
		room, _ = c.store.rooms.Get(roomInfo.ID)
		if roomInfo.Topic != "" {
			room.Topic = roomInfo.Topic
		}
		room = room.AddMember(att)
	} else {
		room = domain.NewRoom(roomInfo.ID, roomInfo.Topic, att)
	}
	c.store.rooms.Set(room.ID, room)
	room, _ = c.store.rooms.Get(room.ID)

	log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).
		Str("room", string(room.ID)).Bool("created", !existed).Msg("join")

	c.emitter.ToUsers(room.MemberIDs(sid), EventUserConnected, att)
	c.emitter.ToUser(sid, EventLobbyUpdated, room.Users)
}

// Disconnect removes the attendee and reconciles its room: empty rooms are
// deleted, and when the owner left (or a single member remains) ownership
// passes to the first remaining speaker in join order, else to the oldest
// member. The promoted member is forced to speaker.
func (c *Coordinator) Disconnect(sid domain.UserID) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.disconnectLocked(sid)
}

// DisconnectByPeer routes a media-layer close or error into the same cleanup
// path, keyed by peer id instead of connection id.
func (c *Coordinator) DisconnectByPeer(pid domain.PeerID) {
	if pid == "" {
		return
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	for _, u := range c.store.users.Values() {
		if u.PeerID == pid {
			c.disconnectLocked(u.ID)
			return
		}
	}
	log.Debug().Str("module", "app.coordinator").Str("peer", string(pid)).Msg("disconnect by peer: unknown")
}

func (c *Coordinator) disconnectLocked(sid domain.UserID) {
	user, ok := c.store.users.Get(sid)
	if !ok {
		return
	}
	c.store.users.Delete(sid)

	room, ok := c.store.rooms.Get(user.RoomID)
	if !ok {
		// Leftover user of a room that is already gone.
		return
	}
	room = room.RemoveMember(sid)
	if len(room.Users) == 0 {
		c.store.rooms.Delete(room.ID)
		log.Info().Str("module", "app.coordinator").Str("room", string(room.ID)).Msg("room emptied, deleted")
		return
	}

	wasOwner := room.Owner.ID == sid
	if wasOwner || len(room.Users) == 1 {
		heir := pickSuccessor(room)
		heir.IsSpeaker = true
		room.Owner = heir
		room = room.ReplaceMember(heir)
		c.store.users.Set(heir.ID, heir)
		log.Info().Str("module", "app.coordinator").Str("room", string(room.ID)).
			Str("owner", string(heir.ID)).Msg("ownership passed")
		c.emitter.ToUsers(room.MemberIDs(""), EventUpgradeUserPermission, heir)
	}

	c.store.rooms.Set(room.ID, room)
	c.emitter.ToUsers(room.MemberIDs(""), EventUserDisconnected, user)
}

// pickSuccessor prefers the first remaining speaker in join order and falls
// back to the oldest member.
func pickSuccessor(room domain.Room) domain.Attendee {
	for _, u := range room.Users {
		if u.IsSpeaker {
			return u
		}
	}
	return room.Users[0]
}

// SpeakRequest relays the caller's request to its room owner only.
func (c *Coordinator) SpeakRequest(sid domain.UserID) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	user, ok := c.store.users.Get(sid)
	if !ok {
		return
	}
	room, ok := c.store.rooms.Get(user.RoomID)
	if !ok {
		return
	}
	log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).
		Str("owner", string(room.Owner.ID)).Msg("speak request")
	c.emitter.ToUser(room.Owner.ID, EventSpeakRequest, user)
}

// SpeakAnswer applies the owner's verdict to the target attendee in both
// registries, then tells the target directly and the rest of the room.
func (c *Coordinator) SpeakAnswer(answer bool, target domain.Attendee) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	current, ok := c.store.users.Get(target.ID)
	if !ok {
		return
	}
	room, ok := c.store.rooms.Get(current.RoomID)
	if !ok {
		// Stale answer for a room that already died; leave both registries
		// untouched.
		return
	}

	updated := current
	updated.IsSpeaker = answer
	c.store.users.Set(target.ID, updated)
	room = room.ReplaceMember(updated)
	c.store.rooms.Set(room.ID, room)

	log.Info().Str("module", "app.coordinator").Str("sid", string(target.ID)).
		Bool("speaker", answer).Msg("speak answer")
	c.emitter.ToUser(updated.ID, EventUpgradeUserPermission, updated)
	c.emitter.ToUsers(room.MemberIDs(updated.ID), EventUpgradeUserPermission, updated)
}
