package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/setlist/internal/formatter"
	"github.com/desertthunder/setlist/internal/shared"
)

// historyEntry is the JSON shape of one export record.
type historyEntry struct {
	Sequence   int       `json:"sequence"`
	Format     string    `json:"format"`
	Filename   string    `json:"filename"`
	TrackCount int       `json:"trackCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// History lists recorded playlist exports, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	history, err := r.exportHistory()
	if err != nil {
		return err
	}
	if history == nil {
		return fmt.Errorf("%w: [database] path is empty", shared.ErrInvalidConfig)
	}

	criteria := map[string]any{"limit": int(cmd.Int("limit"))}
	if f := cmd.String("format"); f != "" {
		format, err := formatter.ParseFormat(f)
		if err != nil {
			return err
		}
		criteria["format"] = string(format)
	}

	exports, err := history.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list exports: %w", err)
	}

	if cmd.Bool("json") {
		entries := make([]historyEntry, 0, len(exports))
		for _, e := range exports {
			entries = append(entries, historyEntry{
				Sequence:   e.Sequence(),
				Format:     e.Format(),
				Filename:   e.Filename(),
				TrackCount: e.TrackCount(),
				CreatedAt:  e.CreatedAt(),
			})
		}
		return r.writeJSON(entries, true)
	}

	if len(exports) == 0 {
		return r.writePlain("No exports recorded yet.\n")
	}

	for _, e := range exports {
		if err := r.writePlain("#%-4d %-4s %-24s %s  %s\n",
			e.Sequence(),
			e.Format(),
			e.Filename(),
			english.Plural(e.TrackCount(), "track", "tracks"),
			humanize.Time(e.CreatedAt()),
		); err != nil {
			return err
		}
	}
	return nil
}
