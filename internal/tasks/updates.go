package tasks

import "fmt"

// ProgressUpdate represents a progress event during a sync run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveChannel Phase = iota
	FindPlaylist
	ListTitles
	SearchTracks
	SyncPlaylist
	Done
)

func (p Phase) String() string {
	switch p {
	case ResolveChannel:
		return "resolve_channel"
	case FindPlaylist:
		return "find_playlist"
	case ListTitles:
		return "list_titles"
	case SearchTracks:
		return "search_tracks"
	case SyncPlaylist:
		return "sync_playlist"
	case Done:
		return "done"
	default:
		return ""
	}
}

func resolveChannelUpdate(handle string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveChannel,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Resolving channel handle %s...", handle),
	}
}

func findPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FindPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Looking for playlist %q...", name),
	}
}

func listTitlesUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ListTitles,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Listing items in %q...", name),
	}
}

func searchTrackUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Searching: %s", step, total, title),
	}
}

func syncPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SyncPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Syncing playlist %q...", name),
	}
}

func doneUpdate(result *SyncResult) ProgressUpdate {
	var msg string
	switch result.Outcome {
	case PlaylistCreated:
		msg = fmt.Sprintf("Created playlist %q with %d tracks", result.Playlist.Name, len(result.Added))
	case PlaylistUpdated:
		msg = fmt.Sprintf("Added %d new tracks to %q", len(result.Added), result.Playlist.Name)
	default:
		msg = fmt.Sprintf("No new tracks to add to %q", result.Playlist.Name)
	}
	return ProgressUpdate{
		Phase:   Done,
		Step:    1,
		Total:   1,
		Message: msg,
		Data:    result,
	}
}
