package domain

// featuredLimit caps the lobby preview list.
const featuredLimit = 3

// Room is an active audio room. Users keeps join order; the succession rule
// and FeaturedAttendees both depend on it.
type Room struct {
	ID    RoomID   `json:"id"`
	Topic string   `json:"topic"`
	Owner Attendee `json:"owner"`
	// Users holds the membership in join order, unique by attendee id.
	Users []Attendee `json:"users"`

	// Derived on every store, never patched in place.
	AttendeesCount    int        `json:"attendeesCount"`
	SpeakersCount     int        `json:"speakersCount"`
	FeaturedAttendees []Attendee `json:"featuredAttendees"`
}

func NewRoom(id RoomID, topic string, owner Attendee) Room {
	return Room{
		ID:    id,
		Topic: topic,
		Owner: owner,
		Users: []Attendee{owner},
	}
}

// WithAggregates returns a copy with the derived counters recomputed from the
// current membership.
func (r Room) WithAggregates() Room {
	out := r
	out.AttendeesCount = len(r.Users)
	out.SpeakersCount = 0
	for _, u := range r.Users {
		if u.IsSpeaker {
			out.SpeakersCount++
		}
	}
	n := min(len(r.Users), featuredLimit)
	out.FeaturedAttendees = append([]Attendee(nil), r.Users[:n]...)
	return out
}

// Member returns the member with the given id, if present.
func (r Room) Member(id UserID) (Attendee, bool) {
	for _, u := range r.Users {
		if u.ID == id {
			return u, true
		}
	}
	return Attendee{}, false
}

// AddMember appends att unless a member with the same id is already present.
func (r Room) AddMember(att Attendee) Room {
	if _, ok := r.Member(att.ID); ok {
		return r
	}
	out := r
	out.Users = append(append([]Attendee(nil), r.Users...), att)
	return out
}

// ReplaceMember swaps the member with att's id for att, keeping its position.
func (r Room) ReplaceMember(att Attendee) Room {
	out := r
	out.Users = append([]Attendee(nil), r.Users...)
	for i, u := range out.Users {
		if u.ID == att.ID {
			out.Users[i] = att
			break
		}
	}
	return out
}

// RemoveMember drops the member with the given id, preserving order.
func (r Room) RemoveMember(id UserID) Room {
	out := r
	out.Users = make([]Attendee, 0, len(r.Users))
	for _, u := range r.Users {
		if u.ID != id {
			out.Users = append(out.Users, u)
		}
	}
	return out
}

// MemberIDs lists member ids in join order, skipping exclude when non-empty.
func (r Room) MemberIDs(exclude UserID) []UserID {
	out := make([]UserID, 0, len(r.Users))
	for _, u := range r.Users {
		if exclude != "" && u.ID == exclude {
			continue
		}
		out = append(out, u.ID)
	}
	return out
}
