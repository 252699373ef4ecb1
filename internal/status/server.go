// Package status exposes a small local HTTP endpoint for inspecting a
// running client: health plus a snapshot of room, unread and presence
// state. Disabled unless an address is configured.
package status

import (
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-client/internal/core"
)

// StateSource provides a consistent snapshot of the running session.
type StateSource interface {
	Snapshot() core.Snapshot
}

// StateResponse is the body of GET /state.
type StateResponse struct {
	Username   string         `json:"username"`
	ActiveRoom string         `json:"active_room"`
	Rooms      []string       `json:"rooms"`
	Online     []string       `json:"online"`
	Unread     map[string]int `json:"unread"`
}

// NewServer builds the status HTTP server.
func NewServer(source StateSource, addr string, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              addr,
		Handler:           NewRouter(source, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// NewRouter builds the gin router serving the status routes.
func NewRouter(source StateSource, logger *zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	router.GET("/state", func(c *gin.Context) {
		snap := source.Snapshot()
		logger.Debug().Str("room", snap.ActiveRoom).Msg("state requested")
		c.JSON(stdhttp.StatusOK, StateResponse{
			Username:   snap.Username,
			ActiveRoom: snap.ActiveRoom,
			Rooms:      snap.Rooms,
			Online:     snap.Presence,
			Unread:     snap.Unread,
		})
	})

	return router
}
