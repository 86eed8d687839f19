package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/vovakirdan/meetwire-server/internal/auth"
	"github.com/vovakirdan/meetwire-server/internal/config"
	"github.com/vovakirdan/meetwire-server/internal/core"
	"github.com/vovakirdan/meetwire-server/internal/rtc"
	"github.com/vovakirdan/meetwire-server/internal/rtc/livekit"
	"github.com/vovakirdan/meetwire-server/internal/store"
	"github.com/vovakirdan/meetwire-server/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/meetwire-server/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is not configured")
	}

	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      24 * time.Hour,
	}

	var issuer rtc.TokenIssuer
	if cfg.LiveKitAPIKey != "" && cfg.LiveKitAPISecret != "" {
		issuer = livekit.New(cfg.LiveKitAPIKey, cfg.LiveKitAPISecret, cfg.LiveKitURL)
		logger.Info().Str("livekit_url", cfg.LiveKitURL).Msg("rtc token issuer enabled")
	} else {
		logger.Warn().Msg("livekit credentials not set, rtc token endpoint disabled")
	}

	registry := core.NewRegistry()
	hub := core.NewHub(registry, st, logger)
	if cfg.SaveTimeout > 0 {
		hub.SaveTimeout = cfg.SaveTimeout
	}

	server := transporthttp.NewServer(hub, st, issuer, jwtConfig, *cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		store:           st,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
