package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/oauth2"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Resolution  ResolutionConfig  `toml:"resolution"`
	Batch       BatchConfig       `toml:"batch"`
	Cache       CacheConfig       `toml:"cache"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig    `toml:"spotify"`
	Apple   AppleMusicConfig `toml:"apple"`
}

// SpotifyConfig contains Spotify API credentials and the tokens obtained
// through the OAuth authorization flow.
type SpotifyConfig struct {
	ClientID     string    `toml:"client_id"`
	ClientSecret string    `toml:"client_secret"`
	RedirectURI  string    `toml:"redirect_uri"`
	AccessToken  string    `toml:"access_token,omitempty"`
	RefreshToken string    `toml:"refresh_token,omitempty"`
	Expiry       time.Time `toml:"expiry,omitempty"`
}

// Update stores the fields of an OAuth token for persistence.
func (s *SpotifyConfig) Update(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", ErrInvalidCredentials)
	}
	s.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		s.RefreshToken = token.RefreshToken
	}
	s.Expiry = token.Expiry
	return nil
}

// Token reconstructs the persisted OAuth token, or nil when none is stored.
func (s *SpotifyConfig) Token() *oauth2.Token {
	if s.AccessToken == "" {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		Expiry:       s.Expiry,
	}
}

// AppleMusicConfig contains Apple Music API credentials.
type AppleMusicConfig struct {
	DeveloperToken string `toml:"developer_token"`
	MusicUserToken string `toml:"music_user_token"`
	Storefront     string `toml:"storefront"`
}

// ResolutionConfig tunes the track resolution engine.
type ResolutionConfig struct {
	Profile         string  `toml:"profile"`           // scoring profile name, default "strict"
	MaxAlternatives int     `toml:"max_alternatives"`  // cap on ranked alternatives per track
	RateLimit       float64 `toml:"rate_limit"`        // outbound requests per second per catalog
	RequestTimeout  int     `toml:"request_timeout_ms"`
}

// BatchConfig tunes the batch executor.
type BatchConfig struct {
	Concurrency   int     `toml:"concurrency"`    // simultaneous in-flight resolutions
	BatchSize     int     `toml:"batch_size"`     // items per chunk in chunked mode
	BatchDelay    int     `toml:"batch_delay_ms"` // inter-batch throttle delay
	MaxRetries    int     `toml:"max_retries"`    // additional attempts per failing call
	InitialDelay  int     `toml:"initial_delay_ms"`
	MaxDelay      int     `toml:"max_delay_ms"`
	BackoffFactor float64 `toml:"backoff_factor"`
}

// CacheConfig contains resolution cache database settings.
type CacheConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	SessionTTL int    `toml:"session_ttl_minutes"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// SaveConfig writes the configuration back to a TOML file at the specified path.
func SaveConfig(path string, config *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
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
