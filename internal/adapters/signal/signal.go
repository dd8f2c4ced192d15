package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/JpythonS/clubhouse/internal/adapters/rtc"
	"github.com/JpythonS/clubhouse/internal/app"
	"github.com/JpythonS/clubhouse/internal/config"
	"github.com/JpythonS/clubhouse/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// Controller owns the WebSocket side of the room and lobby namespaces and
// implements app.Emitter on top of its connection maps. Coord and Lobby are
// wired by main after construction.
type Controller struct {
	Coord *app.Coordinator
	Lobby *app.LobbyBroadcaster

	cfg   *config.Config
	joins *JoinRateLimiter

	mu    sync.RWMutex
	conns map[domain.UserID]*wsConn
	lobby map[domain.UserID]*wsConn
	media map[domain.UserID]*rtc.MediaConnection
}

func NewController(cfg *config.Config) *Controller {
	return &Controller{
		cfg:   cfg,
		joins: NewJoinRateLimiter(10, time.Minute),
		conns: make(map[domain.UserID]*wsConn),
		lobby: make(map[domain.UserID]*wsConn),
		media: make(map[domain.UserID]*rtc.MediaConnection),
	}
}

type wsConn struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- data:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleRoom upgrades a room-namespace connection and starts its pumps.
// The connection id is the client token set by the router middleware.
func (ctl *Controller) HandleRoom(ctx context.Context, c *gin.Context) {
	sid := domain.UserID(c.GetString("client_token"))
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("new room WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.cfg.ReadLimit)

	conn := &wsConn{
		conn: ws,
		send: make(chan []byte, 32),
	}

	ctl.mu.Lock()
	ctl.conns[sid] = conn
	ctl.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.roomReadPump(ctx, cancel, sid, conn)
}

// HandleLobby upgrades a lobby-namespace connection; the broadcaster pushes
// the current room list to it right away.
func (ctl *Controller) HandleLobby(ctx context.Context, c *gin.Context) {
	sid := domain.UserID(c.GetString("client_token"))
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("new lobby WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.cfg.ReadLimit)

	conn := &wsConn{
		conn: ws,
		send: make(chan []byte, 32),
	}

	ctl.mu.Lock()
	ctl.lobby[sid] = conn
	ctl.mu.Unlock()

	ctl.Lobby.OnNewConnection(func(event string, payload any) {
		ctl.sendEvent(conn, event, payload)
	})

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.lobbyReadPump(ctx, cancel, sid, conn)
}

// ToUser implements app.Emitter for a single room-namespace connection.
func (ctl *Controller) ToUser(id domain.UserID, event string, payload any) {
	ctl.mu.RLock()
	conn, ok := ctl.conns[id]
	ctl.mu.RUnlock()
	if !ok {
		return
	}
	ctl.sendEvent(conn, event, payload)
}

// ToUsers implements app.Emitter for a pre-resolved audience.
func (ctl *Controller) ToUsers(ids []domain.UserID, event string, payload any) {
	for _, id := range ids {
		ctl.ToUser(id, event, payload)
	}
}

// ToLobby implements app.Emitter for the lobby fan-out.
func (ctl *Controller) ToLobby(event string, payload any) {
	ctl.mu.RLock()
	subs := make([]*wsConn, 0, len(ctl.lobby))
	for _, conn := range ctl.lobby {
		subs = append(subs, conn)
	}
	ctl.mu.RUnlock()
	for _, conn := range subs {
		ctl.sendEvent(conn, event, payload)
	}
}

// dropRoomConn tears down a room connection: room cleanup first, then the
// media endpoint, then the map entries.
func (ctl *Controller) dropRoomConn(sid domain.UserID, conn *wsConn) {
	ctl.Coord.Disconnect(sid)
	ctl.joins.Forget(sid)

	ctl.mu.Lock()
	mc := ctl.media[sid]
	delete(ctl.media, sid)
	if ctl.conns[sid] == conn {
		delete(ctl.conns, sid)
	}
	ctl.mu.Unlock()

	if mc != nil {
		// Disconnect already ran; the media close must not re-enter it.
		mc.Detach()
		mc.Close()
	}
	conn.Close()
}

func (ctl *Controller) dropLobbyConn(sid domain.UserID, conn *wsConn) {
	ctl.mu.Lock()
	if ctl.lobby[sid] == conn {
		delete(ctl.lobby, sid)
	}
	ctl.mu.Unlock()
	conn.Close()
}
