package signal

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/JpythonS/clubhouse/internal/adapters/rtc"
	"github.com/JpythonS/clubhouse/internal/domain"
)

func (ctl *Controller) sendCandidate(c *wsConn, ci webrtc.ICECandidateInit) {
	resp := struct {
		Candidate     string `json:"candidate"`
		SDPMid        string `json:"sdpMid,omitempty"`
		SDPMLineIndex uint16 `json:"sdpMLineIndex,omitempty"`
	}{
		Candidate: ci.Candidate,
	}
	if ci.SDPMid != nil {
		resp.SDPMid = *ci.SDPMid
	}
	if ci.SDPMLineIndex != nil {
		resp.SDPMLineIndex = *ci.SDPMLineIndex
	}
	ctl.sendEvent(c, "candidate", resp)
}

// handleOffer establishes the media endpoint for this connection. The answer
// is followed by peer-ready carrying the server-assigned peer id; the client
// must wait for it before sending join-room so other members can call the
// peer.
func (ctl *Controller) handleOffer(
	sid domain.UserID,
	conn *wsConn,
	data []byte,
) {
	type offerPayload struct {
		Type string `json:"type"`
		SDP  string `json:"sdp"`
	}
	var p offerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad offer payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	pid := domain.PeerID(uuid.NewString())
	mc, err := rtc.NewMediaConnection(rtc.DefaultConfig(), pid)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("webrtc new pc")
		return
	}

	mc.OnICECandidate(func(ci webrtc.ICECandidateInit) {
		ctl.sendCandidate(conn, ci)
	})
	mc.OnClosed(func() {
		log.Info().Str("module", "signal").Str("peer", string(pid)).Msg("media closed")
		ctl.Coord.DisconnectByPeer(pid)
	})

	if err = mc.Start(context.Background()); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("webrtc start")
		mc.Close()
		return
	}

	offer := webrtc.SessionDescription{
		Type: webrtc.SDPTypeOffer,
		SDP:  p.SDP,
	}
	answer, err := mc.ApplyOfferAndCreateAnswer(offer)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("webrtc apply offer")
		mc.Close()
		return
	}

	ctl.mu.Lock()
	old := ctl.media[sid]
	ctl.media[sid] = mc
	ctl.mu.Unlock()
	if old != nil {
		// Renegotiation replaces the endpoint; the stale one must not drag
		// the still-connected user through the disconnect path.
		old.Detach()
		old.Close()
	}

	ctl.sendEvent(conn, "answer", map[string]string{"sdp": answer.SDP})
	ctl.sendEvent(conn, "peer-ready", map[string]string{"peerId": string(pid)})
}

func (ctl *Controller) handleCandidate(
	sid domain.UserID,
	_ *wsConn,
	data []byte,
) {
	type candidatePayload struct {
		Type          string `json:"type"`
		Candidate     string `json:"candidate"`
		SDPMid        string `json:"sdpMid"`
		SDPMLineIndex uint16 `json:"sdpMLineIndex"`
	}
	var p candidatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad candidate payload")
		return
	}

	cand := webrtc.ICECandidateInit{
		Candidate: p.Candidate,
	}
	if p.SDPMid != "" {
		cand.SDPMid = &p.SDPMid
	}
	cand.SDPMLineIndex = &p.SDPMLineIndex

	ctl.mu.RLock()
	mc := ctl.media[sid]
	ctl.mu.RUnlock()
	if mc == nil {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("candidate: no media connection")
		return
	}
	if err := mc.AddICECandidate(cand); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("add ice candidate")
	}
}
