package server

import (
	"encoding/gob"
	"net/http"

	"github.com/desertthunder/yt2spot/internal/models"
	"github.com/desertthunder/yt2spot/internal/shared"
	"github.com/gorilla/sessions"
)

// Session value keys. The token key name matches the constant the original
// flow stored its token record under.
const (
	tokenKey  = "token_info"
	titlesKey = "yt_videos"
)

func init() {
	gob.Register(models.TokenRecord{})
	gob.Register([]string{})
}

// Sessions exposes the per-user cookie session through typed accessors.
//
// The session carries exactly two values across the redirect chain: the
// Spotify token record (written by the callback and the refresh path) and
// the cached cleaned-title list (written by the extractor, consumed by the
// synchronizer). Both live only as long as the browser session cookie.
type Sessions struct {
	store *sessions.CookieStore
	name  string
}

// NewSessions creates a cookie-backed session manager signed with secret.
func NewSessions(secret, cookieName string) *Sessions {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Sessions{
		store: store,
		name:  cookieName,
	}
}

func (s *Sessions) get(r *http.Request) *sessions.Session {
	// An undecodable cookie yields a fresh session alongside the error;
	// treating it as empty matches losing the session.
	session, _ := s.store.Get(r, s.name)
	return session
}

// Token returns the session's token record, or ErrNoToken when absent.
func (s *Sessions) Token(r *http.Request) (models.TokenRecord, error) {
	session := s.get(r)

	value, ok := session.Values[tokenKey]
	if !ok {
		return models.TokenRecord{}, shared.ErrNoToken
	}

	record, ok := value.(models.TokenRecord)
	if !ok {
		return models.TokenRecord{}, shared.ErrNoToken
	}

	return record, nil
}

// SetToken stores (or replaces) the session's token record.
func (s *Sessions) SetToken(w http.ResponseWriter, r *http.Request, record models.TokenRecord) error {
	session := s.get(r)
	session.Values[tokenKey] = record
	return session.Save(r, w)
}

// Titles returns the cached cleaned-title list, or nil when absent.
func (s *Sessions) Titles(r *http.Request) []string {
	session := s.get(r)

	value, ok := session.Values[titlesKey]
	if !ok {
		return nil
	}

	titles, ok := value.([]string)
	if !ok {
		return nil
	}

	return titles
}

// SetTitles caches the cleaned-title list for the synchronizer stage.
func (s *Sessions) SetTitles(w http.ResponseWriter, r *http.Request, titles []string) error {
	session := s.get(r)
	session.Values[titlesKey] = titles
	return session.Save(r, w)
}
