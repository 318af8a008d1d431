package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/oauth2"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Sync        SyncConfig        `toml:"sync"`
	Session     SessionConfig     `toml:"session"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	YouTube YouTubeConfig `toml:"youtube"`
}

// SpotifyConfig contains Spotify API credentials and, after a CLI
// authorization, the saved token pair.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	AccessToken  string `toml:"access_token,omitempty"`
	RefreshToken string `toml:"refresh_token,omitempty"`
	ExpiresAt    int64  `toml:"expires_at,omitempty"`
}

// Update copies a fresh token pair into the config. Keeps the previous
// refresh token when the provider omits one from the refresh response.
func (s *SpotifyConfig) Update(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", ErrInvalidArgument)
	}

	s.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		s.RefreshToken = token.RefreshToken
	}
	s.ExpiresAt = token.Expiry.Unix()
	return nil
}

// Token returns the saved token pair as an [oauth2.Token], or nil when no
// authorization has been saved.
func (s SpotifyConfig) Token() *oauth2.Token {
	if s.AccessToken == "" {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		Expiry:       time.Unix(s.ExpiresAt, 0),
	}
}

// Map converts the Spotify credentials into the map form the services constructor expects.
func (s SpotifyConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     s.ClientID,
		"client_secret": s.ClientSecret,
		"redirect_uri":  s.RedirectURI,
	}
}

// YouTubeConfig contains the YouTube Data API key.
type YouTubeConfig struct {
	APIKey string `toml:"api_key"`
}

// SyncConfig names the channel and the fixed-name playlists on either side of the sync.
type SyncConfig struct {
	ChannelHandle  string `toml:"channel_handle"`
	SourcePlaylist string `toml:"source_playlist"`
	DestPlaylist   string `toml:"dest_playlist"`
}

// SessionConfig contains cookie session settings.
type SessionConfig struct {
	Secret     string `toml:"secret"`
	CookieName string `toml:"cookie_name"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port address the web server binds to.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path, then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.ApplyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config, with environment overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.ApplyEnv()
	return &config
}

// SaveConfig writes the configuration back to a TOML file. The file is
// created with 0600 permissions because it may contain tokens.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays environment variables onto the configuration.
// Environment values always win over file values.
func (c *Config) ApplyEnv() {
	c.Credentials.Spotify.ClientID = getEnv("SPOTIFY_CLIENT_ID", c.Credentials.Spotify.ClientID)
	c.Credentials.Spotify.ClientSecret = getEnv("SPOTIFY_CLIENT_SECRET", c.Credentials.Spotify.ClientSecret)
	c.Credentials.Spotify.RedirectURI = getEnv("SPOTIFY_REDIRECT_URI", c.Credentials.Spotify.RedirectURI)
	c.Credentials.YouTube.APIKey = getEnv("YT_API_KEY", c.Credentials.YouTube.APIKey)
	c.Session.Secret = getEnv("SESSION_SECRET", c.Session.Secret)
	c.Session.CookieName = getEnv("SESSION_COOKIE_NAME", c.Session.CookieName)
	c.Sync.ChannelHandle = getEnv("YT2SPOT_CHANNEL_HANDLE", c.Sync.ChannelHandle)
	c.Sync.SourcePlaylist = getEnv("YT2SPOT_SOURCE_PLAYLIST", c.Sync.SourcePlaylist)
	c.Sync.DestPlaylist = getEnv("YT2SPOT_DEST_PLAYLIST", c.Sync.DestPlaylist)
	c.Server.Host = getEnv("YT2SPOT_HOST", c.Server.Host)
	c.Server.Port = getEnvInt("YT2SPOT_PORT", c.Server.Port)
}

// Validate checks that every credential the sync pipeline needs is present.
// A missing value is a startup error, not something handled mid-flow.
func (c *Config) Validate() error {
	if c.Credentials.Spotify.ClientID == "" || c.Credentials.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: spotify client_id and client_secret are required", ErrMissingCredentials)
	}
	if c.Credentials.Spotify.RedirectURI == "" {
		return fmt.Errorf("%w: spotify redirect_uri is required", ErrMissingCredentials)
	}
	if c.Credentials.YouTube.APIKey == "" {
		return fmt.Errorf("%w: youtube api_key is required", ErrMissingCredentials)
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("%w: session secret is required", ErrMissingCredentials)
	}
	if c.Sync.ChannelHandle == "" || c.Sync.SourcePlaylist == "" || c.Sync.DestPlaylist == "" {
		return fmt.Errorf("%w: sync channel_handle, source_playlist and dest_playlist are required", ErrInvalidConfig)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}
