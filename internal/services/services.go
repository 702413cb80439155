// package services defines the Catalog interface for music-streaming APIs
//
// Spotify, Apple Music
package services

import (
	"context"

	"github.com/desertthunder/crossfade/internal/models"
	"golang.org/x/oauth2"
)

// Catalog defines the operations the transfer core needs from a
// music-streaming catalog. Search and ISRC lookup feed the resolution chain;
// the playlist operations cover export from a source catalog and commit into
// a destination catalog.
type Catalog interface {
	// Authenticate performs OAuth or token authentication with the catalog.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// GetPlaylists retrieves all playlists for the authenticated user.
	GetPlaylists(ctx context.Context) ([]models.Playlist, error)

	// GetPlaylist retrieves a specific playlist by ID.
	GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error)

	// ExportPlaylist exports a playlist with all its tracks.
	ExportPlaylist(ctx context.Context, playlistID string) (*models.PlaylistExport, error)

	// SearchTracks runs a free-text track search and returns up to limit
	// ranked candidates in the catalog's own order.
	SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error)

	// LookupISRC queries the catalog by ISRC code.
	LookupISRC(ctx context.Context, isrc string) ([]models.Track, error)

	// CreatePlaylist creates an empty playlist in the catalog.
	CreatePlaylist(ctx context.Context, name, description string) (*models.Playlist, error)

	// AddTracks appends tracks to a playlist by catalog-native id, preserving order.
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error

	// Name returns the catalog name (e.g., "Spotify", "Apple Music")
	Name() string
}

// OAuthService extends Catalog for providers using the OAuth2 authorization
// code flow.
type OAuthService interface {
	Catalog
	GetAuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}
