// Spotify API implementation of [Searcher]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/search
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// mediumImage is the position of the medium rendition in album.images.
const mediumImage = 1

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a simplified Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a simplified Spotify album.
type SpotifyAlbum struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []SpotifyImage `json:"images"`
	URI         string         `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Explicit   bool            `json:"explicit"`
	Popularity int             `json:"popularity"`
	URI        string          `json:"uri"`
}

// SpotifyTrackPage is one page of track search results.
type SpotifyTrackPage struct {
	Items  []SpotifyTrack `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
	Next   *string        `json:"next"`
}

// SpotifySearchResponse is the body of GET /search with type=track.
type SpotifySearchResponse struct {
	Tracks SpotifyTrackPage `json:"tracks"`
}

// SpotifyOpts configures a [SpotifyService].
type SpotifyOpts struct {
	ClientID     string
	ClientSecret string
	TokenURL     string       // defaults to the Spotify accounts endpoint
	APIURL       string       // defaults to the Spotify Web API base
	HTTPClient   *http.Client // defaults to [http.DefaultClient]
	RateLimit    float64      // searches per second; <= 0 disables throttling
	Burst        int
}

// SpotifyService implements [Searcher] for the Spotify Web API using the client-credentials grant.
type SpotifyService struct {
	credentials *clientcredentials.Config
	apiURL      string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

// NewSpotifyService creates a new Spotify service from opts.
func NewSpotifyService(opts SpotifyOpts) (*SpotifyService, error) {
	if opts.ClientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}
	if opts.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}
	if opts.TokenURL == "" {
		opts.TokenURL = spotifyTokenURL
	}
	if opts.APIURL == "" {
		opts.APIURL = spotifyBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(opts.Burst, 1))
	}

	return &SpotifyService{
		credentials: &clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     opts.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		apiURL:     strings.TrimRight(opts.APIURL, "/"),
		httpClient: opts.HTTPClient,
		limiter:    limiter,
	}, nil
}

// NewSpotifyServiceFromConfig builds a [SpotifyService] from the application config.
func NewSpotifyServiceFromConfig(cfg *shared.Config) (*SpotifyService, error) {
	return NewSpotifyService(SpotifyOpts{
		ClientID:     cfg.Credentials.Spotify.ClientID,
		ClientSecret: cfg.Credentials.Spotify.ClientSecret,
		TokenURL:     cfg.Credentials.Spotify.TokenURL,
		APIURL:       cfg.Credentials.Spotify.APIURL,
		RateLimit:    cfg.Search.RateLimit,
		Burst:        cfg.Search.Burst,
	})
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Token exchanges the client credentials for a bearer token.
//
// Each call performs a new exchange; nothing is cached between calls.
func (s *SpotifyService) Token(ctx context.Context) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)

	token, err := s.credentials.Token(ctx)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			return "", fmt.Errorf("%w: token endpoint status %d", shared.ErrAuthFailed, re.Response.StatusCode)
		}
		return "", fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	return token.AccessToken, nil
}

// Search exchanges credentials for a token, queries the track search endpoint and maps the items.
func (s *SpotifyService) Search(ctx context.Context, query string) ([]models.Track, error) {
	if query == "" {
		return nil, nil
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("search throttled: %w", err)
		}
	}

	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.SearchTracks(ctx, token, query)
	if err != nil {
		return nil, err
	}

	return MapTracks(resp.Tracks.Items)
}

// SearchTracks performs GET /search?q={query}&type=track with the given bearer token.
func (s *SpotifyService) SearchTracks(ctx context.Context, token, query string) (*SpotifySearchResponse, error) {
	params := url.Values{"q": {query}, "type": {"track"}}
	apiURL := s.apiURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: spotify API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var result SpotifySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", shared.ErrMalformedResponse, err)
	}
	return &result, nil
}

// MapTrack converts a Spotify track into a [models.Track].
//
// Fails with [shared.ErrMalformedResponse] when the track has no artists or fewer than two images.
func MapTrack(item SpotifyTrack) (models.Track, error) {
	if len(item.Artists) == 0 {
		return models.Track{}, fmt.Errorf("%w: track %q has no artists", shared.ErrMalformedResponse, item.ID)
	}
	if len(item.Album.Images) <= mediumImage {
		return models.Track{}, fmt.Errorf("%w: track %q has %d album images", shared.ErrMalformedResponse, item.ID, len(item.Album.Images))
	}

	return models.Track{
		Title:           item.Name,
		Artist:          item.Artists[0].Name,
		Album:           item.Album.Name,
		Image:           item.Album.Images[mediumImage].URL,
		ID:              item.ID,
		DurationSeconds: int(math.Round(float64(item.DurationMS) / 1000)),
	}, nil
}

// MapTracks converts every item in order; one malformed item fails the whole batch.
func MapTracks(items []SpotifyTrack) ([]models.Track, error) {
	tracks := make([]models.Track, 0, len(items))
	for _, item := range items {
		track, err := MapTrack(item)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}
