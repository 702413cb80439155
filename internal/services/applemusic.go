// Apple Music API implementation of [Catalog]
//
// Apple Music API response types based on https://developer.apple.com/documentation/applemusicapi
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/crossfade/internal/match"
	"github.com/desertthunder/crossfade/internal/models"
	"github.com/desertthunder/crossfade/internal/shared"
	"golang.org/x/time/rate"
)

const appleBaseURL = "https://api.music.apple.com/v1"

// AppleSongAttributes is the attribute bag for a catalog song. Unlike
// Spotify, the artist credit arrives as a single joined string.
type AppleSongAttributes struct {
	Name             string `json:"name"`
	ArtistName       string `json:"artistName"`
	AlbumName        string `json:"albumName"`
	DurationInMillis int    `json:"durationInMillis"`
	ISRC             string `json:"isrc"`
	ContentRating    string `json:"contentRating"` // "explicit" or "clean"
}

// AppleSong represents a song resource.
type AppleSong struct {
	ID         string              `json:"id"`
	Type       string              `json:"type"`
	Attributes AppleSongAttributes `json:"attributes"`
}

// ApplePlaylist represents a library playlist resource.
type ApplePlaylist struct {
	ID         string `json:"id"`
	Attributes struct {
		Name        string `json:"name"`
		Description struct {
			Standard string `json:"standard"`
		} `json:"description"`
		IsPublic bool `json:"isPublic"`
	} `json:"attributes"`
}

// AppleMusicService implements [Catalog] for the Apple Music API.
//
// Authenticates with a developer token plus a music user token for library
// operations. All outbound calls wait on the injected rate limiter.
type AppleMusicService struct {
	developerToken string
	userToken      string
	storefront     string
	httpClient     *http.Client
	limiter        *rate.Limiter
	baseURL        string
}

// AppleMusicOpts configures an AppleMusicService.
type AppleMusicOpts struct {
	DeveloperToken string
	MusicUserToken string
	Storefront     string        // defaults to "us"
	Limiter        *rate.Limiter // defaults to 5 req/s
	Timeout        time.Duration // defaults to 5s
}

// NewAppleMusicService creates a new Apple Music client.
func NewAppleMusicService(opts AppleMusicOpts) (*AppleMusicService, error) {
	if opts.DeveloperToken == "" {
		return nil, fmt.Errorf("%w: missing developer_token", shared.ErrMissingCredentials)
	}
	if opts.Storefront == "" {
		opts.Storefront = "us"
	}
	if opts.Limiter == nil {
		opts.Limiter = rate.NewLimiter(rate.Limit(5), 1)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}

	return &AppleMusicService{
		developerToken: opts.DeveloperToken,
		userToken:      opts.MusicUserToken,
		storefront:     opts.Storefront,
		httpClient:     &http.Client{Timeout: opts.Timeout},
		limiter:        opts.Limiter,
		baseURL:        appleBaseURL,
	}, nil
}

func (a *AppleMusicService) Name() string {
	return "Apple Music"
}

// Authenticate stores the music user token for library requests.
func (a *AppleMusicService) Authenticate(ctx context.Context, credentials map[string]string) error {
	token, ok := credentials["music_user_token"]
	if !ok || token == "" {
		return fmt.Errorf("%w: missing music_user_token", shared.ErrMissingCredentials)
	}
	a.userToken = token
	return nil
}

// doRequest performs an authenticated, rate-limited HTTP request.
func (a *AppleMusicService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return err
	}

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+a.developerToken)
	req.Header.Set("Content-Type", "application/json")
	if a.userToken != "" {
		req.Header.Set("Music-User-Token", a.userToken)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: apple music status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// trackFromApple translates a raw song into the neutral descriptor, splitting
// the joined artist credit into an ordered artist list.
func trackFromApple(song AppleSong) models.Track {
	attrs := song.Attributes
	artists := match.SplitArtists(attrs.ArtistName)

	track := models.Track{
		ID:         song.ID,
		Title:      attrs.Name,
		Artists:    artists,
		Album:      attrs.AlbumName,
		DurationMS: attrs.DurationInMillis,
		ISRC:       attrs.ISRC,
		Explicit:   attrs.ContentRating == "explicit",
	}
	if len(artists) > 0 {
		track.Artist = artists[0]
	}
	return track
}

// SearchTracks searches the catalog with a free-text term.
func (a *AppleMusicService) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 25 {
		limit = 25
	}

	endpoint := fmt.Sprintf("/catalog/%s/search?term=%s&types=songs&limit=%d",
		a.storefront, url.QueryEscape(query), limit)

	var response struct {
		Results struct {
			Songs struct {
				Data []AppleSong `json:"data"`
			} `json:"songs"`
		} `json:"results"`
	}
	if err := a.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(response.Results.Songs.Data))
	for _, song := range response.Results.Songs.Data {
		tracks = append(tracks, trackFromApple(song))
	}
	return tracks, nil
}

// LookupISRC queries the catalog songs endpoint with an ISRC filter.
func (a *AppleMusicService) LookupISRC(ctx context.Context, isrc string) ([]models.Track, error) {
	endpoint := fmt.Sprintf("/catalog/%s/songs?filter[isrc]=%s", a.storefront, url.QueryEscape(isrc))

	var response struct {
		Data []AppleSong `json:"data"`
	}
	if err := a.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(response.Data))
	for _, song := range response.Data {
		tracks = append(tracks, trackFromApple(song))
	}
	return tracks, nil
}

// GetPlaylists retrieves all library playlists for the authenticated user.
func (a *AppleMusicService) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var all []models.Playlist
	offset := 0

	for {
		endpoint := fmt.Sprintf("/me/library/playlists?limit=25&offset=%d", offset)

		var response struct {
			Data []ApplePlaylist `json:"data"`
			Next string          `json:"next"`
		}
		if err := a.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
			return nil, err
		}

		for _, pl := range response.Data {
			all = append(all, models.Playlist{
				ID:          pl.ID,
				Name:        pl.Attributes.Name,
				Description: pl.Attributes.Description.Standard,
				Public:      pl.Attributes.IsPublic,
			})
		}

		if response.Next == "" || len(response.Data) == 0 {
			break
		}
		offset += 25
	}

	return all, nil
}

// GetPlaylist retrieves a specific library playlist by ID.
func (a *AppleMusicService) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	endpoint := "/me/library/playlists/" + url.PathEscape(playlistID)

	var response struct {
		Data []ApplePlaylist `json:"data"`
	}
	if err := a.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	if len(response.Data) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	pl := response.Data[0]
	return &models.Playlist{
		ID:          pl.ID,
		Name:        pl.Attributes.Name,
		Description: pl.Attributes.Description.Standard,
		Public:      pl.Attributes.IsPublic,
	}, nil
}

// ExportPlaylist exports a library playlist with all its tracks.
func (a *AppleMusicService) ExportPlaylist(ctx context.Context, playlistID string) (*models.PlaylistExport, error) {
	playlist, err := a.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	export := &models.PlaylistExport{Playlist: *playlist}
	offset := 0

	for {
		endpoint := fmt.Sprintf("/me/library/playlists/%s/tracks?limit=100&offset=%d",
			url.PathEscape(playlistID), offset)

		var response struct {
			Data []AppleSong `json:"data"`
			Next string      `json:"next"`
		}
		if err := a.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
			return nil, err
		}

		for _, song := range response.Data {
			export.Tracks = append(export.Tracks, trackFromApple(song))
		}

		if response.Next == "" || len(response.Data) == 0 {
			break
		}
		offset += 100
	}

	export.Playlist.TrackCount = len(export.Tracks)
	return export, nil
}

// CreatePlaylist creates an empty library playlist.
func (a *AppleMusicService) CreatePlaylist(ctx context.Context, name, description string) (*models.Playlist, error) {
	body := map[string]any{
		"attributes": map[string]any{
			"name":        name,
			"description": description,
		},
	}

	var response struct {
		Data []ApplePlaylist `json:"data"`
	}
	if err := a.doRequest(ctx, http.MethodPost, "/me/library/playlists", body, &response); err != nil {
		return nil, err
	}
	if len(response.Data) == 0 {
		return nil, fmt.Errorf("%w: playlist creation returned no data", shared.ErrAPIRequest)
	}

	pl := response.Data[0]
	return &models.Playlist{
		ID:   pl.ID,
		Name: pl.Attributes.Name,
	}, nil
}

// AddTracks appends catalog songs to a library playlist, preserving order.
func (a *AppleMusicService) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	data := make([]map[string]string, 0, len(trackIDs))
	for _, id := range trackIDs {
		data = append(data, map[string]string{"id": id, "type": "songs"})
	}

	endpoint := fmt.Sprintf("/me/library/playlists/%s/tracks", url.PathEscape(playlistID))
	return a.doRequest(ctx, http.MethodPost, endpoint, map[string]any{"data": data}, nil)
}
