package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Consent flow errors
	ErrConsentDenied   = fmt.Errorf("authorization denied by provider")
	ErrMissingAuthCode = fmt.Errorf("no authorization code provided")
	ErrNoToken         = fmt.Errorf("no token present in session")
	ErrTokenExpired    = fmt.Errorf("access token expired")
	ErrRefreshFailed   = fmt.Errorf("token refresh failed")
	ErrTimeout         = fmt.Errorf("operation timed out")

	// API and lookup errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrChannelNotFound  = fmt.Errorf("channel not found")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrTrackNotFound    = fmt.Errorf("track not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
