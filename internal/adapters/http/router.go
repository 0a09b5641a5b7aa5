package http

import (
	"context"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dkeye/livedocs/internal/adapters/rtc"
	"github.com/dkeye/livedocs/internal/adapters/signal"
	"github.com/dkeye/livedocs/internal/app/orch"
	"github.com/dkeye/livedocs/internal/config"
	"github.com/dkeye/livedocs/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// SetupRouter serves the web client, the relay upgrade endpoint and a small
// read-only API on one port. A WebSocket handshake on any path is handed to
// the relay, since browsers dial the bare host.
func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(RequestLogger())
	}
	r.Use(gin.Recovery())

	ctrl := signal.NewSignalWSController(o, signal.OptionsFromConfig(cfg))
	upgrade := func(c *gin.Context) { ctrl.HandleSignal(ctx, c) }
	r.Use(func(c *gin.Context) {
		if websocket.IsWebSocketUpgrade(c.Request) {
			upgrade(c)
			c.Abort()
			return
		}
		c.Next()
	})
	r.GET("/ws", upgrade)

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"connections": o.Registry.Count(),
		})
	})
	r.GET("/metrics", gin.WrapH(o.Metrics.Handler()))

	iceServers := rtc.ICEServers(cfg.ICEServers)
	api := r.Group("/api")

	// GET /api/rooms: non-empty document and video rooms
	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"documents": o.Documents.List(),
			"rooms":     o.Video.List(),
		})
	})

	// GET /api/rooms/:id/participants: who is in a video room
	api.GET("/rooms/:id/participants", func(c *gin.Context) {
		room := domain.RoomID(c.Param("id"))
		parts, ok := o.Video.Participants(room)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"roomId":       room,
			"participants": parts,
		})
	})

	api.GET("/ice-servers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": iceServers})
	})

	static := staticHandler(cfg.StaticPath)
	r.GET("/", static)
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		static(c)
	})

	return r
}

// staticHandler serves files from root and falls back to index.html so
// client-side routes resolve. The request path is cleaned before it is joined
// to root, so nothing outside root is reachable.
func staticHandler(root string) gin.HandlerFunc {
	index := filepath.Join(root, "index.html")
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Status(http.StatusNotFound)
			return
		}
		name := filepath.Join(root, filepath.FromSlash(path.Clean("/"+c.Request.URL.Path)))
		if serveFile(c, name) || serveFile(c, index) {
			return
		}
		c.Status(http.StatusNotFound)
	}
}

// serveFile writes a regular file with http.ServeContent, which unlike
// http.ServeFile does not inspect the request URL.
func serveFile(c *gin.Context, name string) bool {
	f, err := os.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil || fi.IsDir() {
		return false
	}
	http.ServeContent(c.Writer, c.Request, fi.Name(), fi.ModTime(), f)
	return true
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().Str("module", "adapters.http").
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("remote", c.ClientIP()).
			Msg("request")
	}
}
