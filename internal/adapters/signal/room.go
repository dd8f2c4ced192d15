package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/JpythonS/clubhouse/internal/domain"
)

func (ctl *Controller) handleJoin(
	sid domain.UserID,
	conn *wsConn,
	data []byte,
) {
	type joinPayload struct {
		Type string `json:"type"`
		Room struct {
			ID    string `json:"id"`
			Topic string `json:"topic"`
		} `json:"room"`
		User struct {
			Username string `json:"username"`
			Img      string `json:"img"`
			PeerID   string `json:"peerId"`
		} `json:"user"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.Room.ID == "" {
		ctl.sendError(conn, "missing room id")
		return
	}
	if err := domain.ValidateUsername(p.User.Username); err != nil {
		ctl.sendError(conn, err.Error())
		return
	}
	if err := domain.ValidateTopic(p.Room.Topic); err != nil {
		ctl.sendError(conn, err.Error())
		return
	}
	if !ctl.joins.Allow(sid) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("join rate limited")
		ctl.sendError(conn, "too_many_joins")
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).
		Str("room_id", p.Room.ID).Msg("join-room")

	ctl.Coord.Join(sid,
		domain.Room{ID: domain.RoomID(p.Room.ID), Topic: p.Room.Topic},
		domain.Attendee{
			Username: p.User.Username,
			Img:      p.User.Img,
			PeerID:   domain.PeerID(p.User.PeerID),
		})
}
