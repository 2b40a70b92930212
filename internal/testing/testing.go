// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/setlist/internal/models"
)

// MockSearcher is a test double for [services.Searcher].
//
// Results are looked up by query; unknown queries return no tracks. Err, when set, fails every search.
// A query listed in Block waits until its channel is closed or the context ends.
type MockSearcher struct {
	Results map[string][]models.Track
	Err     error
	Block   map[string]chan struct{}

	mu      sync.Mutex
	queries []string
}

func (m *MockSearcher) Search(ctx context.Context, query string) ([]models.Track, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	gate := m.Block[query]
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Results[query], nil
}

func (m *MockSearcher) Name() string { return "mock" }

// Queries returns the queries searched so far, in call order.
func (m *MockSearcher) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

// RecordCall is one call to [MockRecorder.Record].
type RecordCall struct {
	Format     string
	Filename   string
	TrackCount int
}

// MockRecorder is a test double for repositories.Recorder.
type MockRecorder struct {
	Err error

	mu    sync.Mutex
	calls []RecordCall
}

func (m *MockRecorder) Record(format, filename string, trackCount int) (*models.PersistedExport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, RecordCall{Format: format, Filename: filename, TrackCount: trackCount})
	if m.Err != nil {
		return nil, m.Err
	}
	return models.NewPersistedExport(format, filename, trackCount), nil
}

// Calls returns the recorded calls in order.
func (m *MockRecorder) Calls() []RecordCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RecordCall(nil), m.calls...)
}

// SecondTrack is a second distinct search result.
func SecondTrack() models.Track {
	return models.Track{
		Title:           "Jealous Guy",
		Artist:          "John Lennon",
		Album:           "Imagine",
		Image:           "https://i.scdn.co/image/jealous",
		ID:              "def456",
		DurationSeconds: 254,
	}
}

// ImagineTrack is the canonical search result used across tests.
func ImagineTrack() models.Track {
	return models.Track{
		Title:           "Imagine",
		Artist:          "John Lennon",
		Album:           "Imagine",
		Image:           "https://i.scdn.co/image/medium",
		ID:              "abc123",
		DurationSeconds: 183,
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
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
