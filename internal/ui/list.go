package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

const (
	cursorMark   = "›"
	defaultWidth = 80
)

// suggestionRow renders a search result as "Title • Artist", truncated to width cells.
func suggestionRow(t models.Track, width int) string {
	return truncate(fmt.Sprintf("%s • %s", t.Title, t.Artist), width)
}

// selectionRow renders a listed track as "n. Title • Artist • Album" with the m:ss duration right-aligned.
func selectionRow(n int, t models.Track, width int) string {
	duration := shared.FormatDuration(t.DurationSeconds)

	parts := []string{t.Title, t.Artist}
	if t.Album != "" {
		parts = append(parts, t.Album)
	}
	label := fmt.Sprintf("%d. %s", n, strings.Join(parts, " • "))

	room := width - runewidth.StringWidth(duration) - 1
	label = truncate(label, room)
	pad := max(room-runewidth.StringWidth(label), 0)

	return label + strings.Repeat(" ", pad+1) + duration
}

// truncate shortens s to at most width terminal cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// marked prefixes row with the cursor when active, keeping rows aligned otherwise.
func marked(row string, active bool) string {
	if active {
		return styles.cursor.Render(cursorMark + " " + row)
	}
	return "  " + row
}
