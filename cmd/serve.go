package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/yt2spot/internal/server"
	"github.com/desertthunder/yt2spot/internal/services"
	"github.com/desertthunder/yt2spot/internal/shared"
	"github.com/desertthunder/yt2spot/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the web server hosting the redirect-driven sync flow.
//
// Blocks until the process receives SIGINT or SIGTERM, then shuts down
// gracefully with a short drain window.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}
	if r.spotify == nil || r.youtube == nil {
		return fmt.Errorf("%w: both Spotify and YouTube credentials are required", shared.ErrMissingCredentials)
	}

	sessions := server.NewSessions(r.config.Session.Secret, r.config.Session.CookieName)

	app := web.NewApp(web.AppOpts{
		OAuth: r.spotify,
		Music: func(accessToken string) services.MusicService {
			return r.spotify.WithToken(accessToken)
		},
		Engine:   r.engine,
		Sessions: sessions,
		DestName: r.config.Sync.DestPlaylist,
		Logger:   r.logger,
	})

	router := server.NewBasicRouter()
	router.Use(
		server.RequestLogger(r.logger),
		server.Throttle(60, time.Minute, 10),
	)
	router.Handler(app)

	httpServer := &http.Server{
		Addr:              r.config.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("listening on %v", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-signalCtx.Done():
		r.logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	return nil
}
