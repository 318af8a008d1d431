package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/yt2spot/internal/models"
	"github.com/desertthunder/yt2spot/internal/server"
	"github.com/desertthunder/yt2spot/internal/services"
	"github.com/desertthunder/yt2spot/internal/shared"
	"github.com/desertthunder/yt2spot/internal/tasks"
	"golang.org/x/oauth2"
)

type fakeOAuth struct {
	exchangeToken *oauth2.Token
	exchangeErr   error
	refreshToken  *oauth2.Token
	refreshErr    error
	refreshCalls  int
}

func (f *fakeOAuth) AuthURL(state string) string {
	return "https://accounts.example.com/authorize?state=" + state
}

func (f *fakeOAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.exchangeToken, nil
}

func (f *fakeOAuth) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	f.refreshCalls++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshToken, nil
}

func (f *fakeOAuth) OAuthConfig() *oauth2.Config { return &oauth2.Config{} }

type fakeVideo struct {
	playlists []models.Playlist
	titles    []string
}

func (f *fakeVideo) ChannelForHandle(ctx context.Context, handle string) (string, error) {
	return "chan1", nil
}

func (f *fakeVideo) Playlists(ctx context.Context, channelID string) ([]models.Playlist, error) {
	return f.playlists, nil
}

func (f *fakeVideo) PlaylistItemTitles(ctx context.Context, playlistID string) ([]string, error) {
	return f.titles, nil
}

func (f *fakeVideo) Name() string { return "FakeVideo" }

type fakeMusic struct {
	playlists []models.Playlist
	trackURIs map[string][]string
	search    map[string]models.Track
	created   []models.Playlist
	added     map[string][]string
}

func newFakeMusic() *fakeMusic {
	return &fakeMusic{
		trackURIs: map[string][]string{},
		search:    map[string]models.Track{},
		added:     map[string][]string{},
	}
}

func (f *fakeMusic) CurrentUserID(ctx context.Context) (string, error) { return "user1", nil }

func (f *fakeMusic) Playlists(ctx context.Context) ([]models.Playlist, error) {
	return f.playlists, nil
}

func (f *fakeMusic) PlaylistTrackURIs(ctx context.Context, playlistID string) ([]string, error) {
	return f.trackURIs[playlistID], nil
}

func (f *fakeMusic) SearchTrack(ctx context.Context, query string) (*models.Track, error) {
	track, ok := f.search[query]
	if !ok {
		return nil, fmt.Errorf("%w: no results for %q", shared.ErrTrackNotFound, query)
	}
	return &track, nil
}

func (f *fakeMusic) CreatePlaylist(ctx context.Context, userID, name string, public bool) (*models.Playlist, error) {
	playlist := models.Playlist{ID: "created1", Name: name, Public: public}
	f.created = append(f.created, playlist)
	return &playlist, nil
}

func (f *fakeMusic) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	f.added[playlistID] = append(f.added[playlistID], uris...)
	return nil
}

func (f *fakeMusic) Name() string { return "FakeMusic" }

type fixture struct {
	app      *App
	oauth    *fakeOAuth
	video    *fakeVideo
	music    *fakeMusic
	sessions *server.Sessions
	tokens   []string // access tokens handed to the music factory
}

func newFixture() *fixture {
	oauth := &fakeOAuth{
		exchangeToken: &oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			Expiry:       time.Now().Add(time.Hour),
		},
	}
	video := &fakeVideo{
		playlists: []models.Playlist{{ID: "pl1", Name: "forSpotify"}},
		titles:    []string{"Hit One (Official Video)", "Hit Two"},
	}
	music := newFakeMusic()
	music.search["Hit One "] = models.Track{URI: "uri:1"}
	music.search["Hit Two"] = models.Track{URI: "uri:2"}

	sessions := server.NewSessions("test-secret", "test-session")
	sync := shared.SyncConfig{
		ChannelHandle:  "@somechannel",
		SourcePlaylist: "forSpotify",
		DestPlaylist:   "fromYoutube",
	}

	f := &fixture{oauth: oauth, video: video, music: music, sessions: sessions}
	f.app = NewApp(AppOpts{
		OAuth: oauth,
		Music: func(accessToken string) services.MusicService {
			f.tokens = append(f.tokens, accessToken)
			return music
		},
		Engine:   tasks.NewEngine(video, sync),
		Sessions: sessions,
		DestName: sync.DestPlaylist,
		Logger:   shared.NewLogger(io.Discard),
	})
	return f
}

func (f *fixture) get(t *testing.T, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	f.app.ServeHTTP(rr, req)
	return rr
}

func TestAppLogin(t *testing.T) {
	f := newFixture()

	for _, path := range []string{"/", "/login"} {
		rr := f.get(t, path, nil)
		if rr.Code != http.StatusFound {
			t.Errorf("GET %s status = %d, want 302", path, rr.Code)
		}
		location := rr.Header().Get("Location")
		if !strings.HasPrefix(location, "https://accounts.example.com/authorize?state=") {
			t.Errorf("Location = %v", location)
		}
	}
}

func TestAppRedirect(t *testing.T) {
	t.Run("consent error", func(t *testing.T) {
		f := newFixture()
		rr := f.get(t, "/redirect?error=access_denied", nil)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
		if strings.TrimSpace(rr.Body.String()) != "Auth error: access_denied" {
			t.Errorf("body = %q", rr.Body.String())
		}
	})

	t.Run("missing code", func(t *testing.T) {
		f := newFixture()
		rr := f.get(t, "/redirect", nil)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
		if strings.TrimSpace(rr.Body.String()) != "No code provided in redirect URL" {
			t.Errorf("body = %q", rr.Body.String())
		}
	})

	t.Run("exchange failure", func(t *testing.T) {
		f := newFixture()
		f.oauth.exchangeErr = fmt.Errorf("provider down")

		rr := f.get(t, "/redirect?code=abc", nil)
		if rr.Code != http.StatusBadGateway {
			t.Errorf("status = %d, want 502", rr.Code)
		}
	})

	t.Run("stores token and hands off", func(t *testing.T) {
		f := newFixture()
		rr := f.get(t, "/redirect?code=abc", nil)

		if rr.Code != http.StatusFound {
			t.Fatalf("status = %d, want 302", rr.Code)
		}
		if got := rr.Header().Get("Location"); got != "/youtube_auth" {
			t.Errorf("Location = %v, want /youtube_auth", got)
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, cookie := range rr.Result().Cookies() {
			req.AddCookie(cookie)
		}
		record, err := f.sessions.Token(req)
		if err != nil {
			t.Fatalf("Token() error = %v", err)
		}
		if record.AccessToken != "access" || record.RefreshToken != "refresh" {
			t.Errorf("record = %+v", record)
		}
	})
}

func TestAppYouTubeAuth(t *testing.T) {
	t.Run("source playlist missing", func(t *testing.T) {
		f := newFixture()
		f.video.playlists = []models.Playlist{{ID: "pl1", Name: "unrelated"}}

		rr := f.get(t, "/youtube_auth", nil)
		if rr.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rr.Code)
		}
		if strings.TrimSpace(rr.Body.String()) != "No forSpotify playlist found" {
			t.Errorf("body = %q", rr.Body.String())
		}
	})

	t.Run("caches cleaned titles and hands off", func(t *testing.T) {
		f := newFixture()
		rr := f.get(t, "/youtube_auth", nil)

		if rr.Code != http.StatusFound {
			t.Fatalf("status = %d, want 302", rr.Code)
		}
		if got := rr.Header().Get("Location"); got != "/save_from_youtube" {
			t.Errorf("Location = %v", got)
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, cookie := range rr.Result().Cookies() {
			req.AddCookie(cookie)
		}
		titles := f.sessions.Titles(req)
		want := []string{"Hit One ", "Hit Two"}
		if len(titles) != len(want) || titles[0] != want[0] || titles[1] != want[1] {
			t.Errorf("Titles() = %v, want %v", titles, want)
		}
	})
}

func TestAppSaveFromYouTube(t *testing.T) {
	// seed builds a cookie set holding a token record and cached titles.
	seed := func(t *testing.T, f *fixture, record models.TokenRecord, titles []string) []*http.Cookie {
		t.Helper()
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if err := f.sessions.SetToken(rr, req, record); err != nil {
			t.Fatal(err)
		}

		req2 := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, cookie := range rr.Result().Cookies() {
			req2.AddCookie(cookie)
		}
		rr2 := httptest.NewRecorder()
		if err := f.sessions.SetTitles(rr2, req2, titles); err != nil {
			t.Fatal(err)
		}
		return rr2.Result().Cookies()
	}

	freshToken := models.TokenRecord{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
	}
	titles := []string{"Hit One ", "Hit Two"}

	t.Run("no token restarts consent flow", func(t *testing.T) {
		f := newFixture()
		rr := f.get(t, "/save_from_youtube", nil)

		if rr.Code != http.StatusFound {
			t.Errorf("status = %d, want 302", rr.Code)
		}
		if got := rr.Header().Get("Location"); got != "/login" {
			t.Errorf("Location = %v, want /login", got)
		}
	})

	t.Run("creates the destination playlist", func(t *testing.T) {
		f := newFixture()
		rr := f.get(t, "/save_from_youtube", seed(t, f, freshToken, titles))

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %q", rr.Code, rr.Body.String())
		}
		if strings.TrimSpace(rr.Body.String()) != "Tracks from Youtube playlist added successfully" {
			t.Errorf("body = %q", rr.Body.String())
		}
		if len(f.music.created) != 1 || f.music.created[0].Name != "fromYoutube" || !f.music.created[0].Public {
			t.Errorf("created = %+v", f.music.created)
		}
		if f.oauth.refreshCalls != 0 {
			t.Errorf("refreshCalls = %d, want 0", f.oauth.refreshCalls)
		}
	})

	t.Run("appends missing tracks to an existing playlist", func(t *testing.T) {
		f := newFixture()
		f.music.playlists = []models.Playlist{{ID: "dest1", Name: "fromYoutube"}}
		f.music.trackURIs["dest1"] = []string{"uri:1"}

		rr := f.get(t, "/save_from_youtube", seed(t, f, freshToken, titles))

		if strings.TrimSpace(rr.Body.String()) != "fromYoutube playlist updated successfully" {
			t.Errorf("body = %q", rr.Body.String())
		}
		added := f.music.added["dest1"]
		if len(added) != 1 || added[0] != "uri:2" {
			t.Errorf("added = %v", added)
		}
	})

	t.Run("reports when nothing is new", func(t *testing.T) {
		f := newFixture()
		f.music.playlists = []models.Playlist{{ID: "dest1", Name: "fromYoutube"}}
		f.music.trackURIs["dest1"] = []string{"uri:1", "uri:2"}

		rr := f.get(t, "/save_from_youtube", seed(t, f, freshToken, titles))

		if strings.TrimSpace(rr.Body.String()) != "No new tracks to add to fromYoutube playlist" {
			t.Errorf("body = %q", rr.Body.String())
		}
		if len(f.music.added["dest1"]) != 0 {
			t.Errorf("added = %v, want none", f.music.added["dest1"])
		}
	})

	t.Run("refreshes a token near expiry", func(t *testing.T) {
		f := newFixture()
		f.oauth.refreshToken = &oauth2.Token{
			AccessToken:  "refreshed-access",
			RefreshToken: "refresh",
			Expiry:       time.Now().Add(time.Hour),
		}
		expiring := models.TokenRecord{
			AccessToken:  "stale-access",
			RefreshToken: "refresh",
			ExpiresAt:    time.Now().Add(30 * time.Second).Unix(),
		}

		rr := f.get(t, "/save_from_youtube", seed(t, f, expiring, titles))

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %q", rr.Code, rr.Body.String())
		}
		if f.oauth.refreshCalls != 1 {
			t.Errorf("refreshCalls = %d, want 1", f.oauth.refreshCalls)
		}
		if len(f.tokens) != 1 || f.tokens[0] != "refreshed-access" {
			t.Errorf("factory tokens = %v, want refreshed-access", f.tokens)
		}
	})

	t.Run("failed refresh restarts consent flow", func(t *testing.T) {
		f := newFixture()
		f.oauth.refreshErr = fmt.Errorf("%w: provider says no", shared.ErrRefreshFailed)
		expiring := models.TokenRecord{
			AccessToken:  "stale-access",
			RefreshToken: "refresh",
			ExpiresAt:    time.Now().Add(30 * time.Second).Unix(),
		}

		rr := f.get(t, "/save_from_youtube", seed(t, f, expiring, titles))

		if rr.Code != http.StatusFound {
			t.Errorf("status = %d, want 302", rr.Code)
		}
		if got := rr.Header().Get("Location"); got != "/login" {
			t.Errorf("Location = %v, want /login", got)
		}
	})
}

func TestAppRoutes(t *testing.T) {
	f := newFixture()
	routes := f.app.Routes()
	want := []string{"GET /{$}", "GET /login", "GET /redirect", "GET /youtube_auth", "GET /save_from_youtube"}

	if len(routes) != len(want) {
		t.Fatalf("Routes() = %v", routes)
	}
	for i := range want {
		if routes[i] != want[i] {
			t.Errorf("Routes()[%d] = %v, want %v", i, routes[i], want[i])
		}
	}
}

func TestAppUnknownPath(t *testing.T) {
	f := newFixture()
	rr := f.get(t, "/nope", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}
