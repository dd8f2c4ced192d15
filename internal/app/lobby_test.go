package app

import (
	"testing"

	"github.com/JpythonS/clubhouse/internal/domain"
)

func TestLobbyRepublishesOnEveryRoomMutation(t *testing.T) {
	store := NewSessionStore()
	em := &fakeEmitter{}
	_ = NewLobbyBroadcaster(store, em)
	c := NewCoordinator(store, em)

	join(c, "u1", "r1", "alice")
	join(c, "u2", "r2", "bob")

	var lobbyPushes []sentEvent
	for _, s := range em.byEvent(EventLobbyUpdated) {
		if s.lobby {
			lobbyPushes = append(lobbyPushes, s)
		}
	}
	// One push per rooms-registry Set: r1 created, r2 created.
	if len(lobbyPushes) != 2 {
		t.Fatalf("lobby pushes = %d, want 2", len(lobbyPushes))
	}
	rooms := lobbyPushes[1].payload.([]domain.Room)
	if len(rooms) != 2 {
		t.Fatalf("final push carries %d rooms, want 2", len(rooms))
	}
	if rooms[0].ID != "r1" || rooms[1].ID != "r2" {
		t.Errorf("rooms = [%s %s], want creation order [r1 r2]", rooms[0].ID, rooms[1].ID)
	}
	if rooms[0].AttendeesCount != 1 {
		t.Errorf("pushed room carries AttendeesCount = %d, want 1", rooms[0].AttendeesCount)
	}

	em.reset()
	c.Disconnect("u2")
	pushed := false
	for _, s := range em.byEvent(EventLobbyUpdated) {
		if s.lobby {
			pushed = true
			if rooms := s.payload.([]domain.Room); len(rooms) != 1 {
				t.Errorf("push after room death carries %d rooms, want 1", len(rooms))
			}
		}
	}
	if !pushed {
		t.Error("room deletion must reach the lobby")
	}
}

func TestLobbySnapshotOnNewConnection(t *testing.T) {
	store := NewSessionStore()
	em := &fakeEmitter{}
	b := NewLobbyBroadcaster(store, em)
	c := NewCoordinator(store, em)

	join(c, "u1", "r1", "alice")

	var gotEvent string
	var gotRooms []domain.Room
	b.OnNewConnection(func(event string, payload any) {
		gotEvent = event
		gotRooms = payload.([]domain.Room)
	})

	if gotEvent != EventLobbyUpdated {
		t.Errorf("event = %q, want %q", gotEvent, EventLobbyUpdated)
	}
	if len(gotRooms) != 1 || gotRooms[0].ID != "r1" {
		t.Errorf("snapshot = %+v, want the single active room", gotRooms)
	}
}
