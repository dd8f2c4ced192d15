package domain

import "testing"

func member(id string, speaker bool) Attendee {
	return Attendee{ID: UserID(id), Username: "u-" + id, IsSpeaker: speaker}
}

func TestWithAggregates(t *testing.T) {
	room := Room{
		ID:    "r1",
		Topic: "go",
		Users: []Attendee{
			member("a", true),
			member("b", false),
			member("c", true),
			member("d", false),
		},
	}

	got := room.WithAggregates()

	if got.AttendeesCount != 4 {
		t.Errorf("AttendeesCount = %d, want 4", got.AttendeesCount)
	}
	if got.SpeakersCount != 2 {
		t.Errorf("SpeakersCount = %d, want 2", got.SpeakersCount)
	}
	if len(got.FeaturedAttendees) != 3 {
		t.Fatalf("FeaturedAttendees len = %d, want 3", len(got.FeaturedAttendees))
	}
	for i, id := range []UserID{"a", "b", "c"} {
		if got.FeaturedAttendees[i].ID != id {
			t.Errorf("FeaturedAttendees[%d] = %s, want %s", i, got.FeaturedAttendees[i].ID, id)
		}
	}
}

func TestWithAggregatesSmallRoom(t *testing.T) {
	room := Room{ID: "r1", Users: []Attendee{member("a", false)}}
	got := room.WithAggregates()
	if got.AttendeesCount != 1 || got.SpeakersCount != 0 {
		t.Errorf("counts = %d/%d, want 1/0", got.AttendeesCount, got.SpeakersCount)
	}
	if len(got.FeaturedAttendees) != 1 {
		t.Errorf("FeaturedAttendees len = %d, want 1", len(got.FeaturedAttendees))
	}
}

func TestAddMemberIsIdempotentPerID(t *testing.T) {
	room := Room{ID: "r1", Users: []Attendee{member("a", true)}}
	room = room.AddMember(member("b", false))
	room = room.AddMember(member("b", false))

	if len(room.Users) != 2 {
		t.Fatalf("Users len = %d, want 2", len(room.Users))
	}
}

func TestReplaceMemberKeepsPosition(t *testing.T) {
	room := Room{ID: "r1", Users: []Attendee{member("a", true), member("b", false), member("c", false)}}

	upgraded := member("b", true)
	room = room.ReplaceMember(upgraded)

	if room.Users[1].ID != "b" || !room.Users[1].IsSpeaker {
		t.Errorf("Users[1] = %+v, want b as speaker", room.Users[1])
	}
	if len(room.Users) != 3 {
		t.Errorf("Users len = %d, want 3", len(room.Users))
	}
}

func TestReplaceMemberDoesNotMutateOriginal(t *testing.T) {
	orig := Room{ID: "r1", Users: []Attendee{member("a", false)}}
	_ = orig.ReplaceMember(member("a", true))
	if orig.Users[0].IsSpeaker {
		t.Error("original membership mutated")
	}
}

func TestRemoveMemberPreservesOrder(t *testing.T) {
	room := Room{ID: "r1", Users: []Attendee{member("a", true), member("b", false), member("c", false)}}
	room = room.RemoveMember("b")

	if len(room.Users) != 2 || room.Users[0].ID != "a" || room.Users[1].ID != "c" {
		t.Errorf("Users = %+v, want [a c]", room.Users)
	}
}

func TestMemberIDsExclude(t *testing.T) {
	room := Room{ID: "r1", Users: []Attendee{member("a", true), member("b", false)}}

	ids := room.MemberIDs("a")
	if len(ids) != 1 || ids[0] != "b" {
		t.Errorf("MemberIDs(a) = %v, want [b]", ids)
	}
	if got := room.MemberIDs(""); len(got) != 2 {
		t.Errorf("MemberIDs(\"\") = %v, want both", got)
	}
}

func TestValidateTopic(t *testing.T) {
	if err := ValidateTopic("go meetup"); err != nil {
		t.Errorf("short topic rejected: %v", err)
	}
	if err := ValidateTopic(""); err != nil {
		t.Errorf("empty topic rejected: %v", err)
	}
	long := make([]byte, MaxTopicLen+1)
	for i := range long {
		long[i] = 'x'
	}
	if err := ValidateTopic(string(long)); err != ErrTopicTooLong {
		t.Errorf("overlong topic: err = %v, want ErrTopicTooLong", err)
	}
}

func TestAttendeeMerge(t *testing.T) {
	base := Attendee{ID: "x", Username: "old", Img: "pic", RoomID: "r1", IsSpeaker: true}
	got := base.Merge(Attendee{Username: "new", PeerID: "p1"})

	if got.Username != "new" {
		t.Errorf("Username = %q, want new", got.Username)
	}
	if got.Img != "pic" {
		t.Errorf("Img = %q, want pic kept", got.Img)
	}
	if got.PeerID != "p1" {
		t.Errorf("PeerID = %q, want p1", got.PeerID)
	}
	if got.ID != "x" || got.RoomID != "r1" || !got.IsSpeaker {
		t.Errorf("identity fields changed: %+v", got)
	}
}
