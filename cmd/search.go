package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/setlist/internal/shared"
)

// Search runs one catalog search and prints the mapped tracks.
//
// Multiple arguments are joined with spaces, so quoting the query is optional.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSearcher(); err != nil {
		return err
	}

	query := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	r.logger.Debug("searching", "service", r.searcher.Name(), "query", query)

	tracks, err := r.searcher.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	if len(tracks) == 0 {
		return r.writePlain("No tracks found for %q\n", query)
	}

	for i, t := range tracks {
		if err := r.writePlain("%d. %s - %s (%s) %s [%s]\n",
			i+1, t.Title, t.Artist, t.Album, shared.FormatDuration(t.DurationSeconds), t.ID); err != nil {
			return err
		}
	}
	return nil
}
