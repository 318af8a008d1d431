// package models defines the data model for the playlist sync service
package models

import "time"

// Playlist represents a playlist on either platform.
type Playlist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TrackCount int    `json:"track_count"`
	Public     bool   `json:"public"`
}

// Track represents a Spotify track resolved from a cleaned title.
//
// URI is the opaque identifier the sync compares for membership; it is never parsed or constructed locally.
type Track struct {
	URI    string `json:"uri"`
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album,omitempty"`
}

// TokenRecord is the per-session Spotify token state.
//
// Stored in the user's cookie session after the code exchange and replaced whenever the refresh path runs.
type TokenRecord struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"` // unix seconds
}

// ExpiresWithin reports whether the record expires within d of now.
func (t TokenRecord) ExpiresWithin(now time.Time, d time.Duration) bool {
	return t.ExpiresAt-now.Unix() < int64(d.Seconds())
}
