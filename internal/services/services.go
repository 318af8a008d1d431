// package services defines interfaces for the two platform HTTP APIs
//
// YouTube Data API v3 (API-key auth) and Spotify Web API (OAuth2)
package services

import (
	"context"

	"github.com/desertthunder/yt2spot/internal/models"
	"golang.org/x/oauth2"
)

// VideoService is the read-only view of the video platform the extractor needs.
type VideoService interface {
	// ChannelForHandle resolves a channel handle (e.g. "@somechannel") to a channel ID.
	ChannelForHandle(ctx context.Context, handle string) (string, error)

	// Playlists lists the channel's playlists. Single page, capped at 50.
	Playlists(ctx context.Context, channelID string) ([]models.Playlist, error)

	// PlaylistItemTitles lists the display titles of a playlist's items in order. Single page, capped at 50.
	PlaylistItemTitles(ctx context.Context, playlistID string) ([]string, error)

	// Name returns the service name (e.g. "YouTube")
	Name() string
}

// MusicService is the authenticated view of the streaming platform the synchronizer needs.
type MusicService interface {
	// CurrentUserID returns the authenticated user's ID.
	CurrentUserID(ctx context.Context) (string, error)

	// Playlists lists the current user's playlists (platform default page size).
	Playlists(ctx context.Context) ([]models.Playlist, error)

	// PlaylistTrackURIs lists the track URIs currently in a playlist (platform default page size).
	PlaylistTrackURIs(ctx context.Context, playlistID string) ([]string, error)

	// SearchTrack runs a top-1 track search for the query.
	// Returns ErrTrackNotFound when the search yields no results.
	SearchTrack(ctx context.Context, query string) (*models.Track, error)

	// CreatePlaylist creates a playlist owned by the given user.
	CreatePlaylist(ctx context.Context, userID, name string, public bool) (*models.Playlist, error)

	// AddTracks appends the given URIs to a playlist in order.
	AddTracks(ctx context.Context, playlistID string, uris []string) error

	// Name returns the service name (e.g. "Spotify")
	Name() string
}

// OAuthService is implemented by services that authenticate users through an authorization-code flow.
type OAuthService interface {
	// AuthURL returns the provider authorization URL for the given state token.
	AuthURL(state string) string

	// Exchange trades a one-time authorization code for a token pair.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// Refresh trades a refresh token for a fresh access token.
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)

	// OAuthConfig exposes the underlying [oauth2.Config] for callback handlers.
	OAuthConfig() *oauth2.Config
}
