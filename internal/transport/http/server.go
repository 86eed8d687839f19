package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/meetwire-server/internal/auth"
	"github.com/vovakirdan/meetwire-server/internal/config"
	"github.com/vovakirdan/meetwire-server/internal/core"
	"github.com/vovakirdan/meetwire-server/internal/rtc"
	"github.com/vovakirdan/meetwire-server/internal/store"
)

// NewServer builds the HTTP server: the WebSocket gateway plus the REST
// surface for history and RTC tokens. The gateway is mounted on a plain
// mux in front of gin: the upgrade hijacks the connection, which gin's
// response writer does not support.
func NewServer(hub *core.Hub, st store.Store, issuer rtc.TokenIssuer, jwtConfig *auth.JWTConfig, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	meetings := NewMeetingHandlers(st, issuer, logger)
	api := router.Group("/api")
	api.Use(AuthMiddleware(jwtConfig, logger))
	api.GET("/meetings/:id/messages", meetings.ListMessages)
	api.GET("/meetings/:id/rtc-token", meetings.RTCToken)

	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(hub, jwtConfig, cfg, logger))
	mux.Handle("/", router)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
