package serve

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tableflip.dev/harmonizer/pkg/app"
)

// NewRouter wires the API routes over svc.
func NewRouter(svc *app.Service) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(svc.Log))

	h := &handlers{svc: svc}
	r.GET("/healthz", h.health)

	api := r.Group("/api")
	{
		api.GET("/sessions", h.listSessions)
		api.GET("/sessions/:id", h.getSession)
		api.GET("/rooms", h.listRooms)
		api.GET("/filters", h.filters)
		api.GET("/collisions", h.collisions)

		api.GET("/moves", h.pendingMove)
		api.POST("/moves", h.submitMove)
		api.POST("/moves/confirm", h.confirmRoom)
		api.DELETE("/moves", h.cancelMove)
	}
	return r
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Debug()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
