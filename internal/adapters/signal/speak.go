package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/JpythonS/clubhouse/internal/domain"
)

func (ctl *Controller) handleSpeakRequest(sid domain.UserID) {
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("speak-request")
	ctl.Coord.SpeakRequest(sid)
}

func (ctl *Controller) handleSpeakAnswer(
	sid domain.UserID,
	conn *wsConn,
	data []byte,
) {
	type answerPayload struct {
		Type     string          `json:"type"`
		Answer   bool            `json:"answer"`
		Attendee domain.Attendee `json:"attendee"`
	}
	var p answerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad speak-answer payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.Attendee.ID == "" {
		ctl.sendError(conn, "missing attendee id")
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).
		Str("target", string(p.Attendee.ID)).Bool("answer", p.Answer).Msg("speak-answer")
	ctl.Coord.SpeakAnswer(p.Answer, p.Attendee)
}
