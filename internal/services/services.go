// package services defines interface Searcher for querying music catalogs over HTTP
package services

import (
	"context"

	"github.com/desertthunder/setlist/internal/models"
)

// Searcher finds catalog tracks for a free-text query.
type Searcher interface {
	// Search returns the tracks matching query in catalog order.
	// An empty query returns no tracks and performs no network calls.
	Search(ctx context.Context, query string) ([]models.Track, error)

	// Name returns the name of the catalog (e.g., "Spotify")
	Name() string
}

// SearchFunc adapts a function to the [Searcher] interface.
type SearchFunc func(ctx context.Context, query string) ([]models.Track, error)

func (f SearchFunc) Search(ctx context.Context, query string) ([]models.Track, error) {
	return f(ctx, query)
}

func (f SearchFunc) Name() string { return "func" }
