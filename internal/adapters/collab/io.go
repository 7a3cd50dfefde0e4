package collab

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/pairpad/pairpad/internal/core"
	"github.com/pairpad/pairpad/internal/metrics"
)

func (ctl *CollabWSController) writePump(ctx context.Context, c *wsCollabConn) {
	ticker := time.NewTicker(ctl.Cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "collab").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "collab").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.Cfg.WriteTimeout)); err != nil {
				log.Error().Err(err).Str("module", "collab").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "collab").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(ctl.Cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ctl *CollabWSController) readPump(ctx context.Context, id core.ConnID, c *wsCollabConn) {
	defer func() {
		log.Info().Str("module", "collab").Str("conn", string(id)).Msg("readPump closing")
		ctl.disconnect(id)
		c.Close()
	}()

	// pongWait must outlast the ping interval or healthy connections get cut.
	pongWait := ctl.Cfg.PingPeriod * 10 / 9
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("module", "collab").Str("conn", string(id)).Msg("readPump read error")
				return
			}
			ctl.handleEvent(id, c, data)
		}
	}
}

func (ctl *CollabWSController) handleEvent(id core.ConnID, c *wsCollabConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "collab").Msg("bad json")
		return
	}
	metrics.InboundEvents.WithLabelValues(env.Type).Inc()

	switch env.Type {
	case "join-room":
		ctl.handleJoinRoom(id, c, data)
	case "code-change":
		ctl.handleCodeChange(id, data)
	case "language-change":
		ctl.handleLanguageChange(id, data)
	case "cursor-update":
		ctl.handleCursorUpdate(id, data)
	case "ping":
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "collab").Str("type", env.Type).Msg("unknown event")
	}
}

func (ctl *CollabWSController) sendJSON(c core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "collab").Msg("sendJSON marshal")
		return
	}
	if err := c.TrySend(b); err != nil {
		metrics.DroppedFrames.Inc()
	}
}

func (ctl *CollabWSController) broadcastExcept(room core.RoomService, from core.ConnID, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "collab").Msg("broadcast marshal")
		return
	}
	ctl.noteDropped(room.BroadcastExcept(from, b))
}

func (ctl *CollabWSController) broadcastAll(room core.RoomService, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "collab").Msg("broadcast marshal")
		return
	}
	ctl.noteDropped(room.BroadcastAll(b))
}

func (ctl *CollabWSController) noteDropped(res core.PublishResult) {
	if n := len(res.Dropped); n > 0 {
		metrics.DroppedFrames.Add(float64(n))
	}
}
