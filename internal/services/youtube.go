// YouTube Data API v3 implementation of [VideoService]
//
// Response types based on https://developers.google.com/youtube/v3/docs
//
// Authenticates with a static API key passed as a query parameter; no user
// consent is involved on this side of the sync.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/yt2spot/internal/models"
	"github.com/desertthunder/yt2spot/internal/shared"
)

const defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"

// listings are fetched as a single page; the API caps maxResults at 50
const youtubePageSize = 50

type youtubeSnippet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ChannelID   string `json:"channelId"`
}

type youtubeChannel struct {
	ID string `json:"id"`
}

type youtubePlaylist struct {
	ID      string         `json:"id"`
	Snippet youtubeSnippet `json:"snippet"`
}

type youtubePlaylistItem struct {
	ID      string         `json:"id"`
	Snippet youtubeSnippet `json:"snippet"`
}

type youtubeListResponse[T any] struct {
	Items    []T `json:"items"`
	PageInfo struct {
		TotalResults int `json:"totalResults"`
	} `json:"pageInfo"`
}

// YouTubeService implements [VideoService] against the YouTube Data API.
type YouTubeService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewYouTubeService creates a new YouTube Data API service instance.
//
// baseURL is overridable for tests and defaults to the public API endpoint.
func NewYouTubeService(apiKey, baseURL string) (*YouTubeService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: youtube api_key", shared.ErrMissingCredentials)
	}
	if baseURL == "" {
		baseURL = defaultYouTubeBaseURL
	}

	return &YouTubeService{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}, nil
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

func (y *YouTubeService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	params.Set("key", y.apiKey)
	apiURL := fmt.Sprintf("%s%s?%s", y.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			return fmt.Errorf("%w: youtube API status %d: %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Error.Message)
		}
		return fmt.Errorf("%w: youtube API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// ChannelForHandle resolves a channel handle to its channel ID.
//
// Calls GET /channels with forHandle. Zero results yields ErrChannelNotFound
// rather than indexing into an empty item list.
func (y *YouTubeService) ChannelForHandle(ctx context.Context, handle string) (string, error) {
	params := url.Values{}
	params.Set("part", "id")
	params.Set("forHandle", handle)

	var response youtubeListResponse[youtubeChannel]
	if err := y.doRequest(ctx, "/channels", params, &response); err != nil {
		return "", err
	}

	if len(response.Items) == 0 {
		return "", fmt.Errorf("%w: no channel for handle %q", shared.ErrChannelNotFound, handle)
	}

	return response.Items[0].ID, nil
}

// Playlists lists the channel's playlists.
//
// Calls GET /playlists bounded to the first page of 50 results.
func (y *YouTubeService) Playlists(ctx context.Context, channelID string) ([]models.Playlist, error) {
	params := url.Values{}
	params.Set("part", "id,snippet,contentDetails")
	params.Set("channelId", channelID)
	params.Set("maxResults", fmt.Sprintf("%d", youtubePageSize))

	var response youtubeListResponse[youtubePlaylist]
	if err := y.doRequest(ctx, "/playlists", params, &response); err != nil {
		return nil, err
	}

	playlists := make([]models.Playlist, len(response.Items))
	for i, item := range response.Items {
		playlists[i] = models.Playlist{
			ID:   item.ID,
			Name: item.Snippet.Title,
		}
	}

	return playlists, nil
}

// PlaylistItemTitles lists the display titles of a playlist's items in playlist order.
//
// Calls GET /playlistItems bounded to the first page of 50 results.
func (y *YouTubeService) PlaylistItemTitles(ctx context.Context, playlistID string) ([]string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", fmt.Sprintf("%d", youtubePageSize))

	var response youtubeListResponse[youtubePlaylistItem]
	if err := y.doRequest(ctx, "/playlistItems", params, &response); err != nil {
		return nil, err
	}

	titles := make([]string, len(response.Items))
	for i, item := range response.Items {
		titles[i] = item.Snippet.Title
	}

	return titles, nil
}
