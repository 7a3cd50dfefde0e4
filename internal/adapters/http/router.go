package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pairpad/pairpad/internal/adapters/collab"
	"github.com/pairpad/pairpad/internal/app"
	"github.com/pairpad/pairpad/internal/config"
	"github.com/pairpad/pairpad/internal/domain"
	"github.com/pairpad/pairpad/internal/metrics"
)

// ClientTokenMiddleware gives every browser a stable ct cookie so reconnects
// of the same client can be correlated in logs.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

// SetupRouter wires HTTP routes (REST + WS) with the orchestrator.
func SetupRouter(ctx context.Context, cfg *config.Config, orch *app.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("PairpadSessions", store))
	r.Use(ClientTokenMiddleware())

	limiter := NewRateLimiter(cfg.CreateRatePerIP)
	ctl := collab.NewCollabWSController(orch, cfg)

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")

	// POST /api/rooms: create a room seeded with default buffer + language
	api.POST("/rooms", func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		room := orch.Rooms.Create()
		c.JSON(http.StatusOK, gin.H{"roomId": room.Room().ID})
	})

	// GET /api/rooms/:roomId: room info
	api.GET("/rooms/:roomId", func(c *gin.Context) {
		id := domain.RoomID(c.Param("roomId"))
		room, ok := orch.Rooms.Get(id)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		code, language, members := room.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"id":        room.Room().ID,
			"code":      code,
			"language":  language,
			"userCount": len(members),
		})
	})

	// GET /api/health: live room count for external health reporting
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "rooms": orch.Rooms.Count()})
	})

	// WS attachment point
	r.GET("/ws", func(c *gin.Context) {
		ctl.HandleCollab(ctx, c)
	})

	return r
}
