// Package collab terminates websocket attachments and maps wire events onto
// orchestrator transitions.
package collab

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/pairpad/pairpad/internal/app"
	"github.com/pairpad/pairpad/internal/config"
	"github.com/pairpad/pairpad/internal/core"
	"github.com/pairpad/pairpad/internal/domain"
	"github.com/pairpad/pairpad/internal/metrics"
)

var ErrBackpressure = errors.New("backpressure")

type CollabWSController struct {
	Orch *app.Orchestrator
	Cfg  *config.Config
}

func NewCollabWSController(orch *app.Orchestrator, cfg *config.Config) *CollabWSController {
	return &CollabWSController{Orch: orch, Cfg: cfg}
}

type wsCollabConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsCollabConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsCollabConn) Close() {
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

// HandleCollab upgrades the connection and starts its pumps. Every attachment
// gets a fresh connection id; the ct cookie only correlates reconnects of the
// same browser in logs.
func (ctl *CollabWSController) HandleCollab(ctx context.Context, c *gin.Context) {
	id := core.ConnID(uuid.NewString())
	log.Info().Str("module", "collab").Str("conn", string(id)).Str("client", c.GetString("client_token")).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "collab").Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.Cfg.ReadLimit)

	conn := &wsCollabConn{
		conn: ws,
		send: make(chan core.Frame, ctl.Cfg.SendBuffer),
	}

	sess := core.NewMemberSession(&domain.Member{ID: string(id)}, conn)
	ctl.Orch.Sessions.BindSignal(id, sess)
	metrics.ConnectionsLive.Inc()

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go func() {
		defer cancel()
		defer metrics.ConnectionsLive.Dec()
		ctl.readPump(ctx, id, conn)
	}()
}
