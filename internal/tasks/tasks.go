// package tasks implements the playlist sync pipeline between YouTube and Spotify.
//
// The core abstraction is [Engine], which runs the three data stages of the
// sync: extract titles from the source playlist, resolve each cleaned title
// to a Spotify track, and reconcile the destination playlist. Stages are
// pure over explicit inputs and outputs; the HTTP handlers and CLI commands
// are thin callers. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/yt2spot/internal/models"
	"github.com/desertthunder/yt2spot/internal/services"
	"github.com/desertthunder/yt2spot/internal/shared"
)

// titleDelimiters are the characters that start trailing annotation text in
// video titles ("Song (Official Video)", "Artist | Track", "Song [HD]").
const titleDelimiters = "(|["

// CleanTitle truncates a video title at the first delimiter character, exclusive.
//
// Titles without a delimiter are returned unchanged. Whitespace before the
// delimiter is preserved to match the search queries the original flow issued.
func CleanTitle(title string) string {
	if i := strings.IndexAny(title, titleDelimiters); i >= 0 {
		return title[:i]
	}
	return title
}

// CleanTitles applies [CleanTitle] to every title, preserving order.
func CleanTitles(titles []string) []string {
	cleaned := make([]string, len(titles))
	for i, t := range titles {
		cleaned[i] = CleanTitle(t)
	}
	return cleaned
}

// Resolution holds the outcome of resolving cleaned titles against the
// destination platform's search.
type Resolution struct {
	Tracks  []models.Track // Resolved tracks in source order
	Skipped []string       // Cleaned titles that returned no search results
}

// URIs returns the resolved track URIs in source order.
func (r *Resolution) URIs() []string {
	uris := make([]string, len(r.Tracks))
	for i, t := range r.Tracks {
		uris[i] = t.URI
	}
	return uris
}

// Outcome enumerates how a sync run ended.
type Outcome int

const (
	PlaylistCreated Outcome = iota
	PlaylistUpdated
	NothingNew
)

func (o Outcome) String() string {
	switch o {
	case PlaylistCreated:
		return "created"
	case PlaylistUpdated:
		return "updated"
	case NothingNew:
		return "nothing_new"
	default:
		return ""
	}
}

// SyncResult contains all data from a full sync run.
type SyncResult struct {
	Outcome    Outcome         // How the destination playlist changed
	Playlist   models.Playlist // The destination playlist
	Titles     []string        // Cleaned titles extracted from the source
	Resolution Resolution      // Track resolution details
	Added      []string        // URIs appended this run, in collected order
}

// Engine runs the sync pipeline. The YouTube side is fixed at construction;
// the Spotify side is passed per call because its token is session-scoped.
type Engine struct {
	youtube services.VideoService
	sync    shared.SyncConfig
}

// NewEngine creates an Engine for the configured channel and playlist names.
func NewEngine(youtube services.VideoService, sync shared.SyncConfig) *Engine {
	return &Engine{
		youtube: youtube,
		sync:    sync,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// ExtractTitles resolves the configured channel handle, finds the source
// playlist by exact name, lists its items and returns the cleaned titles in
// playlist order.
//
// The playlist scan completes before deciding found vs not found, so an
// empty playlist page and a match on the last element both behave correctly.
func (e *Engine) ExtractTitles(ctx context.Context, progress chan<- ProgressUpdate) ([]string, error) {
	if e.youtube == nil {
		return nil, fmt.Errorf("%w: YouTube service not initialized", shared.ErrAPIRequest)
	}

	e.sendProgress(progress, resolveChannelUpdate(e.sync.ChannelHandle))

	channelID, err := e.youtube.ChannelForHandle(ctx, e.sync.ChannelHandle)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, findPlaylistUpdate(e.sync.SourcePlaylist))

	playlists, err := e.youtube.Playlists(ctx, channelID)
	if err != nil {
		return nil, err
	}

	var playlistID string
	for _, pl := range playlists {
		if pl.Name == e.sync.SourcePlaylist {
			playlistID = pl.ID
			break
		}
	}
	if playlistID == "" {
		return nil, fmt.Errorf("%w: No %s playlist found", shared.ErrPlaylistNotFound, e.sync.SourcePlaylist)
	}

	e.sendProgress(progress, listTitlesUpdate(e.sync.SourcePlaylist))

	titles, err := e.youtube.PlaylistItemTitles(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	return CleanTitles(titles), nil
}

// ResolveTracks issues a top-1 track search per cleaned title, in order.
//
// Titles with zero search results are skipped, not fatal; any other API
// error abandons the run.
func (e *Engine) ResolveTracks(ctx context.Context, progress chan<- ProgressUpdate, music services.MusicService, titles []string) (*Resolution, error) {
	if music == nil {
		return nil, fmt.Errorf("%w: Spotify service not initialized", shared.ErrAPIRequest)
	}

	res := &Resolution{}
	total := len(titles)

	for i, title := range titles {
		e.sendProgress(progress, searchTrackUpdate(i+1, total, title))

		track, err := music.SearchTrack(ctx, title)
		if err != nil {
			if isNotFound(err) {
				res.Skipped = append(res.Skipped, title)
				continue
			}
			return nil, err
		}

		res.Tracks = append(res.Tracks, *track)
	}

	return res, nil
}

// Sync reconciles the destination playlist with the resolved track URIs.
//
// Locates the playlist by exact name among the user's playlists; appends
// only URIs not already present (membership by exact identifier equality,
// order-independent), or creates a public playlist when none exists.
// Re-running with an unchanged source adds nothing and never creates a
// second playlist.
func (e *Engine) Sync(ctx context.Context, progress chan<- ProgressUpdate, music services.MusicService, res *Resolution) (*SyncResult, error) {
	if music == nil {
		return nil, fmt.Errorf("%w: Spotify service not initialized", shared.ErrAPIRequest)
	}

	result := &SyncResult{Resolution: *res}

	e.sendProgress(progress, syncPlaylistUpdate(e.sync.DestPlaylist))

	userID, err := music.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	playlists, err := music.Playlists(ctx)
	if err != nil {
		return nil, err
	}

	var dest *models.Playlist
	for _, pl := range playlists {
		if pl.Name == e.sync.DestPlaylist {
			p := pl
			dest = &p
			break
		}
	}

	uris := res.URIs()

	if dest == nil {
		created, err := music.CreatePlaylist(ctx, userID, e.sync.DestPlaylist, true)
		if err != nil {
			return nil, err
		}
		if err := music.AddTracks(ctx, created.ID, uris); err != nil {
			return nil, err
		}

		result.Outcome = PlaylistCreated
		result.Playlist = *created
		result.Added = uris
		e.sendProgress(progress, doneUpdate(result))
		return result, nil
	}

	existing, err := music.PlaylistTrackURIs(ctx, dest.ID)
	if err != nil {
		return nil, err
	}

	toAdd := missingURIs(uris, existing)
	result.Playlist = *dest
	result.Added = toAdd

	if len(toAdd) == 0 {
		result.Outcome = NothingNew
		e.sendProgress(progress, doneUpdate(result))
		return result, nil
	}

	if err := music.AddTracks(ctx, dest.ID, toAdd); err != nil {
		return nil, err
	}

	result.Outcome = PlaylistUpdated
	e.sendProgress(progress, doneUpdate(result))
	return result, nil
}

// Run executes the full pipeline: extract, resolve, sync.
func (e *Engine) Run(ctx context.Context, progress chan<- ProgressUpdate, music services.MusicService) (*SyncResult, error) {
	titles, err := e.ExtractTitles(ctx, progress)
	if err != nil {
		return nil, err
	}

	res, err := e.ResolveTracks(ctx, progress, music, titles)
	if err != nil {
		return nil, err
	}

	result, err := e.Sync(ctx, progress, music, res)
	if err != nil {
		return nil, err
	}

	result.Titles = titles
	return result, nil
}

// missingURIs returns the members of want absent from have, preserving the
// order of want. URIs are opaque tokens compared for equality only.
func missingURIs(want, have []string) []string {
	present := make(map[string]struct{}, len(have))
	for _, uri := range have {
		present[uri] = struct{}{}
	}

	var missing []string
	for _, uri := range want {
		if _, ok := present[uri]; !ok {
			missing = append(missing, uri)
		}
	}
	return missing
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrTrackNotFound)
}
