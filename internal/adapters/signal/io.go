package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/JpythonS/clubhouse/internal/app"
	"github.com/JpythonS/clubhouse/internal/domain"
)

const writeWait = 5 * time.Second

// message is the wire envelope for both directions.
type message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	pingPeriod := ctl.cfg.PingPeriod
	if pingPeriod <= 0 {
		pingPeriod = 54 * time.Second
	}
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

// roomReadPump feeds inbound room events to the coordinator. On exit the
// connection runs the disconnect path, same as a transport close.
func (ctl *Controller) roomReadPump(ctx context.Context, cancel context.CancelFunc, sid domain.UserID, c *wsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("room connection closing")
		cancel()
		ctl.dropRoomConn(sid, c)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("room read error")
				return
			}
			ctl.handleRoomEvent(sid, c, data)
		}
	}
}

func (ctl *Controller) lobbyReadPump(ctx context.Context, cancel context.CancelFunc, sid domain.UserID, c *wsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("lobby connection closing")
		cancel()
		ctl.dropLobbyConn(sid, c)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				return
			}
			var env message
			if err := json.Unmarshal(data, &env); err != nil {
				continue
			}
			if env.Type == "ping" {
				ctl.handlePing(c)
			}
		}
	}
}

// handleRoomEvent is the static event table: message type to handler, nothing
// discovered at runtime.
func (ctl *Controller) handleRoomEvent(sid domain.UserID, c *wsConn, data []byte) {
	var env message
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Type {
	case app.EventJoinRoom:
		ctl.handleJoin(sid, c, data)
	case app.EventSpeakRequest:
		ctl.handleSpeakRequest(sid)
	case app.EventSpeakAnswer:
		ctl.handleSpeakAnswer(sid, c, data)
	case "offer":
		ctl.handleOffer(sid, c, data)
	case "candidate":
		ctl.handleCandidate(sid, c, data)
	case "ping":
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
	}
}

func (ctl *Controller) sendEvent(c *wsConn, event string, payload any) {
	b, err := json.Marshal(message{Type: event, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendEvent marshal")
		return
	}
	if err := c.TrySend(b); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("event", event).Msg("send dropped")
	}
}

func (ctl *Controller) sendError(c *wsConn, reason string) {
	ctl.sendEvent(c, "error", map[string]string{"error": reason})
}
