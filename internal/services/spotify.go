// Spotify Web API implementation of [MusicService] and [OAuthService]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/yt2spot/internal/models"
	"github.com/desertthunder/yt2spot/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

type spotifyAlbum struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
	Album   spotifyAlbum    `json:"album"`
	URI     string          `json:"uri"`
}

type playlistTracks struct {
	Total int `json:"total"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Public bool           `json:"public"`
	Tracks playlistTracks `json:"tracks"`
	URI    string         `json:"uri"`
}

// SpotifyPaginatedPlaylists represents a paginated response of playlists.
type SpotifyPaginatedPlaylists struct {
	Items  []SpotifySimplePlaylist `json:"items"`
	Total  int                     `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
	Next   *string                 `json:"next"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
type SpotifyPlaylistTrack struct {
	AddedAt string       `json:"added_at"`
	Track   SpotifyTrack `json:"track"`
}

// SpotifyPaginatedPlaylistTracks represents a paginated response of playlist items.
type SpotifyPaginatedPlaylistTracks struct {
	Items []SpotifyPlaylistTrack `json:"items"`
	Total int                    `json:"total"`
	Next  *string                `json:"next"`
}

// SpotifyService implements [MusicService] and [OAuthService] for Spotify API interactions.
// Uses [oauth2] for the consent flow and bearer-token requests for API calls.
type SpotifyService struct {
	config     *oauth2.Config
	token      *oauth2.Token
	baseURL    string
	httpClient *http.Client
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:3000/redirect"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-library-read",
			"playlist-modify-public",
			"playlist-modify-private",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		baseURL:    spotifyBaseURL,
		httpClient: http.DefaultClient,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// AuthURL returns the OAuth2 authorization URL for user login.
//
// Construction cannot fail offline; the URL is fully formed from the client
// id, redirect URI and scope set.
func (s *SpotifyService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades the one-time authorization code for a token pair.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return token, nil
}

// Refresh trades a refresh token for a fresh access token via the provider's token endpoint.
func (s *SpotifyService) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token", shared.ErrRefreshFailed)
	}

	source := s.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	// Spotify omits the refresh token from refresh responses; carry the old one forward.
	if token.RefreshToken == "" {
		token.RefreshToken = refreshToken
	}

	return token, nil
}

// OAuthConfig exposes the underlying OAuth2 config for callback handlers.
func (s *SpotifyService) OAuthConfig() *oauth2.Config {
	return s.config
}

// WithToken returns a request-scoped copy of the service authenticated with the given access token.
//
// The copy shares the HTTP client and config; per-session tokens never leak
// between requests through the shared service value.
func (s *SpotifyService) WithToken(accessToken string) *SpotifyService {
	clone := *s
	clone.token = &oauth2.Token{AccessToken: accessToken}
	return &clone
}

// doRequest performs an authenticated HTTP request to the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call WithToken first", shared.ErrNoToken)
	}

	apiURL := s.baseURL + endpoint

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: spotify API status %d", shared.ErrTokenExpired, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// CurrentUserID retrieves the current authenticated user's ID.
func (s *SpotifyService) CurrentUserID(ctx context.Context) (string, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return "", err
	}
	return user.ID, nil
}

// Playlists retrieves the current user's playlists.
//
// Fetches the platform's default first page only; pagination beyond it is a
// documented limitation of this sync.
func (s *SpotifyService) Playlists(ctx context.Context) ([]models.Playlist, error) {
	var response SpotifyPaginatedPlaylists
	if err := s.doRequest(ctx, http.MethodGet, "/me/playlists", nil, &response); err != nil {
		return nil, err
	}

	playlists := make([]models.Playlist, len(response.Items))
	for i, sp := range response.Items {
		playlists[i] = models.Playlist{
			ID:         sp.ID,
			Name:       sp.Name,
			TrackCount: sp.Tracks.Total,
			Public:     sp.Public,
		}
	}

	return playlists, nil
}

// PlaylistTrackURIs retrieves the URIs of the tracks currently in a playlist.
//
// Single default page, same pagination caveat as [SpotifyService.Playlists].
func (s *SpotifyService) PlaylistTrackURIs(ctx context.Context, playlistID string) ([]string, error) {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", playlistID)

	var response SpotifyPaginatedPlaylistTracks
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	uris := make([]string, len(response.Items))
	for i, item := range response.Items {
		uris[i] = item.Track.URI
	}

	return uris, nil
}

// SearchTrack performs a top-1 track search for the query.
//
// Returns ErrTrackNotFound when the search yields no results; all matching
// intelligence is the platform's, not ours.
func (s *SpotifyService) SearchTrack(ctx context.Context, query string) (*models.Track, error) {
	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=1", url.QueryEscape(query))

	var response struct {
		Tracks struct {
			Items []SpotifyTrack `json:"items"`
		} `json:"tracks"`
	}

	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	if len(response.Tracks.Items) == 0 {
		return nil, fmt.Errorf("%w: no results for %q", shared.ErrTrackNotFound, query)
	}

	st := response.Tracks.Items[0]
	track := &models.Track{
		URI:   st.URI,
		ID:    st.ID,
		Title: st.Name,
		Album: st.Album.Name,
	}
	if len(st.Artists) > 0 {
		track.Artist = st.Artists[0].Name
	}

	return track, nil
}

// CreatePlaylist creates a playlist owned by the given user.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, userID, name string, public bool) (*models.Playlist, error) {
	endpoint := fmt.Sprintf("/users/%s/playlists", userID)

	body := struct {
		Name   string `json:"name"`
		Public bool   `json:"public"`
	}{Name: name, Public: public}

	var created SpotifySimplePlaylist
	if err := s.doRequest(ctx, http.MethodPost, endpoint, body, &created); err != nil {
		return nil, err
	}

	return &models.Playlist{
		ID:     created.ID,
		Name:   created.Name,
		Public: created.Public,
	}, nil
}

// AddTracks appends the given track URIs to a playlist in order.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if len(uris) == 0 {
		return nil
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", playlistID)

	body := struct {
		URIs []string `json:"uris"`
	}{URIs: uris}

	return s.doRequest(ctx, http.MethodPost, endpoint, body, nil)
}
