// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/crossfade/internal/models"
)

// MockCatalog is a scriptable test double for [services.Catalog]. Each field,
// when set, overrides the zero-value behavior of the corresponding method,
// and call counters record invocations. Counters and mutation are guarded so
// the mock is safe under concurrent callers.
type MockCatalog struct {
	mu          sync.Mutex
	ServiceName string

	Playlists []models.Playlist
	Exports   map[string]*models.PlaylistExport // keyed by playlist ID
	SearchFn  func(query string, limit int) ([]models.Track, error)
	ISRCFn    func(isrc string) ([]models.Track, error)
	CreateErr error
	AddErr    error

	SearchCalls int
	ISRCCalls   int
	CreateCalls int
	AddCalls    int

	CreatedPlaylists []models.Playlist
	AddedTracks      map[string][]string // playlist ID -> track IDs
}

func (m *MockCatalog) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (m *MockCatalog) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return m.Playlists, nil
}

func (m *MockCatalog) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	for _, pl := range m.Playlists {
		if pl.ID == playlistID {
			return &pl, nil
		}
	}
	return nil, errors.New("playlist not found")
}

func (m *MockCatalog) ExportPlaylist(ctx context.Context, playlistID string) (*models.PlaylistExport, error) {
	if export, ok := m.Exports[playlistID]; ok {
		return export, nil
	}
	return nil, errors.New("playlist not found")
}

func (m *MockCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	m.mu.Lock()
	m.SearchCalls++
	m.mu.Unlock()
	if m.SearchFn != nil {
		return m.SearchFn(query, limit)
	}
	return nil, nil
}

func (m *MockCatalog) LookupISRC(ctx context.Context, isrc string) ([]models.Track, error) {
	m.mu.Lock()
	m.ISRCCalls++
	m.mu.Unlock()
	if m.ISRCFn != nil {
		return m.ISRCFn(isrc)
	}
	return nil, nil
}

func (m *MockCatalog) CreatePlaylist(ctx context.Context, name, description string) (*models.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	pl := models.Playlist{ID: "mock-playlist-1", Name: name, Description: description}
	m.CreatedPlaylists = append(m.CreatedPlaylists, pl)
	return &pl, nil
}

func (m *MockCatalog) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddCalls++
	if m.AddErr != nil {
		return m.AddErr
	}
	if m.AddedTracks == nil {
		m.AddedTracks = make(map[string][]string)
	}
	m.AddedTracks[playlistID] = append(m.AddedTracks[playlistID], trackIDs...)
	return nil
}

func (m *MockCatalog) Name() string {
	if m.ServiceName == "" {
		return "mock"
	}
	return m.ServiceName
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
