// Package domain contains entity without logic, just meta-data
package domain

import "errors"

const (
	MaxUsernameLen = 36
	MaxTopicLen    = 72
)

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameEmpty   = errors.New("username empty")
	ErrTopicTooLong    = errors.New("topic too long")
)

type (
	// UserID is the transport connection identifier, unique per session.
	UserID string
	RoomID string
	// PeerID is the media-layer connection identifier.
	PeerID string
)

// Attendee is a participant bound to one connection, optionally inside a room.
type Attendee struct {
	ID        UserID `json:"id"`
	Username  string `json:"username"`
	Img       string `json:"img"`
	RoomID    RoomID `json:"roomId"`
	IsSpeaker bool   `json:"isSpeaker"`
	PeerID    PeerID `json:"peerId,omitempty"`
}

// Merge overlays the non-empty display fields of in onto a copy of a.
// Identity and room binding are left to the caller.
func (a Attendee) Merge(in Attendee) Attendee {
	out := a
	if in.Username != "" {
		out.Username = in.Username
	}
	if in.Img != "" {
		out.Img = in.Img
	}
	if in.PeerID != "" {
		out.PeerID = in.PeerID
	}
	return out
}

func ValidateUsername(name string) error {
	if len(name) == 0 {
		return ErrUsernameEmpty
	}
	if len(name) > MaxUsernameLen {
		return ErrUsernameTooLong
	}
	return nil
}

func ValidateTopic(topic string) error {
	if len(topic) > MaxTopicLen {
		return ErrTopicTooLong
	}
	return nil
}
