// Package web implements the redirect-driven sync surface.
//
// Four GET routes chain the stages through browser redirects, preserving the
// surface of the original tool:
//
//	GET /                  → 302 to the Spotify consent URL
//	GET /redirect          → OAuth callback; token into session; 302 to /youtube_auth
//	GET /youtube_auth      → extract cleaned titles into session; 302 to /save_from_youtube
//	GET /save_from_youtube → resolve titles and reconcile the destination playlist
//
// /login aliases / so the synchronizer can bounce a token-less session back
// into the consent flow.
//
// Handlers are thin: each one reads explicit inputs from the session, calls
// a tasks stage, writes outputs back, and redirects. All responses outside
// the redirect chain are plain text. Errors are fail-fast; nothing is
// retried or recovered mid-flow.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/yt2spot/internal/models"
	"github.com/desertthunder/yt2spot/internal/server"
	"github.com/desertthunder/yt2spot/internal/services"
	"github.com/desertthunder/yt2spot/internal/shared"
	"github.com/desertthunder/yt2spot/internal/tasks"
	"golang.org/x/oauth2"
)

// tokenExpirySkew is how close to expiry a token may get before any
// authenticated call forces a refresh.
const tokenExpirySkew = 60 * time.Second

// MusicFactory builds a token-scoped music service for one request.
type MusicFactory func(accessToken string) services.MusicService

// App wires the four sync stages to HTTP routes. Implements [server.Handler].
type App struct {
	oauth    services.OAuthService
	music    MusicFactory
	engine   *tasks.Engine
	sessions *server.Sessions
	destName string
	logger   *log.Logger
}

// AppOpts contains the dependencies for creating an [App].
type AppOpts struct {
	OAuth    services.OAuthService
	Music    MusicFactory
	Engine   *tasks.Engine
	Sessions *server.Sessions
	DestName string
	Logger   *log.Logger
}

// NewApp creates the web application handler.
func NewApp(opts AppOpts) *App {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &App{
		oauth:    opts.OAuth,
		music:    opts.Music,
		engine:   opts.Engine,
		sessions: opts.Sessions,
		destName: opts.DestName,
		logger:   opts.Logger,
	}
}

// Routes returns the path patterns this handler serves.
func (a *App) Routes() []string {
	return []string{
		"GET /{$}",
		"GET /login",
		"GET /redirect",
		"GET /youtube_auth",
		"GET /save_from_youtube",
	}
}

// ServeHTTP dispatches to the stage handler for the request path.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/", "/login":
		a.Login(w, r)
	case "/redirect":
		a.Redirect(w, r)
	case "/youtube_auth":
		a.YouTubeAuth(w, r)
	case "/save_from_youtube":
		a.SaveFromYouTube(w, r)
	default:
		http.NotFound(w, r)
	}
}

// Login begins the consent flow: builds the provider authorization URL and
// redirects the browser to it. Construction cannot fail offline.
func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	state, err := shared.GenerateState()
	if err != nil {
		http.Error(w, "Failed to start authorization", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, a.oauth.AuthURL(state), http.StatusFound)
}

// Redirect handles the provider's callback: surfaces consent errors,
// exchanges the one-time code for a token record, stores it in the session,
// and hands off to the extractor stage.
func (a *App) Redirect(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		a.logger.Warn("consent denied", "error", errParam)
		http.Error(w, fmt.Sprintf("Auth error: %s", errParam), http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "No code provided in redirect URL", http.StatusBadRequest)
		return
	}

	token, err := a.oauth.Exchange(r.Context(), code)
	if err != nil {
		a.logger.Error("token exchange failed", "error", err)
		http.Error(w, "Token exchange failed", http.StatusBadGateway)
		return
	}

	if err := a.sessions.SetToken(w, r, recordFromToken(token)); err != nil {
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/youtube_auth", http.StatusFound)
}

// YouTubeAuth runs the extractor stage: channel handle to channel ID, source
// playlist by exact name, item titles cleaned of trailing annotations. The
// cleaned titles land in the session for the synchronizer.
func (a *App) YouTubeAuth(w http.ResponseWriter, r *http.Request) {
	titles, err := a.engine.ExtractTitles(r.Context(), nil)
	if err != nil {
		if errors.Is(err, shared.ErrPlaylistNotFound) {
			// Not-found leaves the session untouched for the sync stage.
			http.Error(w, trimErrorPrefix(err), http.StatusNotFound)
			return
		}
		a.logger.Error("title extraction failed", "error", err)
		http.Error(w, fmt.Sprintf("YouTube error: %v", err), http.StatusBadGateway)
		return
	}

	if err := a.sessions.SetTitles(w, r, titles); err != nil {
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/save_from_youtube", http.StatusFound)
}

// SaveFromYouTube runs the synchronizer stage: refresh the session token if
// needed, resolve each cached title to a track URI, and append only the URIs
// not already in the destination playlist (creating it when absent).
func (a *App) SaveFromYouTube(w http.ResponseWriter, r *http.Request) {
	record, err := a.token(w, r)
	if err != nil {
		// Missing or unrefreshable token restarts the consent flow.
		a.logger.Warn("token unavailable, restarting consent flow", "error", err)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	music := a.music(record.AccessToken)
	titles := a.sessions.Titles(r)

	res, err := a.engine.ResolveTracks(r.Context(), nil, music, titles)
	if err != nil {
		a.logger.Error("track resolution failed", "error", err)
		http.Error(w, fmt.Sprintf("Spotify error: %v", err), http.StatusBadGateway)
		return
	}

	result, err := a.engine.Sync(r.Context(), nil, music, res)
	if err != nil {
		a.logger.Error("playlist sync failed", "error", err)
		http.Error(w, fmt.Sprintf("Spotify error: %v", err), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	switch result.Outcome {
	case tasks.PlaylistCreated:
		fmt.Fprintln(w, "Tracks from Youtube playlist added successfully")
	case tasks.PlaylistUpdated:
		fmt.Fprintf(w, "%s playlist updated successfully\n", a.destName)
	default:
		fmt.Fprintf(w, "No new tracks to add to %s playlist\n", a.destName)
	}
}

// token returns the session's token record, refreshing and overwriting it
// first when it expires within the skew window. Runs synchronously before
// any authenticated call.
func (a *App) token(w http.ResponseWriter, r *http.Request) (models.TokenRecord, error) {
	record, err := a.sessions.Token(r)
	if err != nil {
		return models.TokenRecord{}, err
	}

	if !record.ExpiresWithin(time.Now(), tokenExpirySkew) {
		return record, nil
	}

	refreshed, err := a.oauth.Refresh(r.Context(), record.RefreshToken)
	if err != nil {
		return models.TokenRecord{}, err
	}

	record = recordFromToken(refreshed)
	if err := a.sessions.SetToken(w, r, record); err != nil {
		return models.TokenRecord{}, err
	}

	return record, nil
}

func recordFromToken(token *oauth2.Token) models.TokenRecord {
	return models.TokenRecord{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry.Unix(),
	}
}

// trimErrorPrefix strips the sentinel prefix from wrapped lookup errors so
// the browser sees "No forSpotify playlist found" rather than the chain.
func trimErrorPrefix(err error) string {
	msg := err.Error()
	if prefix := shared.ErrPlaylistNotFound.Error() + ": "; len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
