// Package rtc is the media-layer endpoint for a room connection. The server
// does not carry audio between attendees; this peer connection anchors the
// handshake (the peer id other members call) and reports liveness, so a media
// failure tears the attendee down the same way a socket close does.
package rtc

import (
	"context"
	"sync"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/JpythonS/clubhouse/internal/domain"
)

type MediaConnection struct {
	pc     *webrtc.PeerConnection
	peerID domain.PeerID
	onICE  func(webrtc.ICECandidateInit)
	cancel context.CancelFunc

	closeOnce sync.Once
	onClosed  func()
}

func DefaultConfig() webrtc.Configuration {
	return webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{
			{
				URLs: []string{"stun:stun.l.google.com:19302"},
			},
		},
	}
}

func NewMediaConnection(cfg webrtc.Configuration, peerID domain.PeerID) (*MediaConnection, error) {
	pc, err := webrtc.NewPeerConnection(cfg)
	if err != nil {
		return nil, err
	}
	return &MediaConnection{pc: pc, peerID: peerID}, nil
}

func (c *MediaConnection) PeerID() domain.PeerID { return c.peerID }

// Start installs the state callbacks and binds the connection lifetime to ctx.
// Failed or Closed peer state fires the closed callback exactly once.
func (c *MediaConnection) Start(ctx context.Context) error {
	_, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.pc.OnICEConnectionStateChange(func(s webrtc.ICEConnectionState) {
		log.Info().Str("module", "rtc").Str("peer", string(c.peerID)).Str("ice_state", s.String()).Msg("ICE state")
		if s == webrtc.ICEConnectionStateDisconnected ||
			s == webrtc.ICEConnectionStateFailed ||
			s == webrtc.ICEConnectionStateClosed {
			cancel()
		}
	})

	c.pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		log.Info().Str("module", "rtc").Str("peer", string(c.peerID)).Str("peer_connection_state", s.String()).Msg("peer state")
		if s == webrtc.PeerConnectionStateFailed ||
			s == webrtc.PeerConnectionStateClosed {
			c.fireClosed()
		}
	})

	c.pc.OnICECandidate(func(cand *webrtc.ICECandidate) {
		if cand != nil && c.onICE != nil {
			c.onICE(cand.ToJSON())
		}
	})

	return nil
}

// ApplyOfferAndCreateAnswer completes the SDP exchange for an inbound offer.
func (c *MediaConnection) ApplyOfferAndCreateAnswer(offer webrtc.SessionDescription) (*webrtc.SessionDescription, error) {
	if err := c.pc.SetRemoteDescription(offer); err != nil {
		return nil, err
	}
	answer, err := c.pc.CreateAnswer(nil)
	if err != nil {
		return nil, err
	}

	gatherComplete := webrtc.GatheringCompletePromise(c.pc)
	if err := c.pc.SetLocalDescription(answer); err != nil {
		return nil, err
	}
	<-gatherComplete

	return c.pc.LocalDescription(), nil
}

func (c *MediaConnection) AddICECandidate(ci webrtc.ICECandidateInit) error {
	return c.pc.AddICECandidate(ci)
}

// OnICECandidate sets the callback for newly gathered local candidates.
func (c *MediaConnection) OnICECandidate(fn func(webrtc.ICECandidateInit)) {
	c.onICE = fn
}

// OnClosed sets the cleanup callback, fired once on failure or Close.
func (c *MediaConnection) OnClosed(fn func()) { c.onClosed = fn }

// Detach consumes the closed callback without running it. Used when the
// endpoint is replaced by renegotiation or its owner is already tearing down,
// so Close does not trigger another disconnect.
func (c *MediaConnection) Detach() {
	c.closeOnce.Do(func() {})
}

func (c *MediaConnection) Close() {
	if c.cancel != nil {
		c.cancel()
	}
	if c.pc != nil {
		if err := c.pc.Close(); err != nil {
			log.Error().Err(err).Str("module", "rtc").Str("peer", string(c.peerID)).Msg("close error")
		} else {
			log.Info().Str("module", "rtc").Str("peer", string(c.peerID)).Msg("closed")
		}
	}
	c.fireClosed()
}

func (c *MediaConnection) fireClosed() {
	c.closeOnce.Do(func() {
		if c.onClosed != nil {
			c.onClosed()
		}
	})
}
