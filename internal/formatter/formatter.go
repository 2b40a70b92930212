// package formatter encodes the selection list as a playlist file (JSON, CSV, Markdown)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

// Format names a playlist file encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
)

// DefaultFilename is the name offered for the JSON export.
const DefaultFilename = "playlist.json"

var marshal = shared.MarshalJSON

// ParseFormat resolves a format name; the empty string selects [FormatJSON].
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatMarkdown, "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", shared.ErrUnsupportedFormat, s)
	}
}

// Filename returns the download name for f (playlist.json, playlist.csv, playlist.md).
func (f Format) Filename() string {
	return "playlist." + string(f)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

// Export encodes tracks in format f.
func Export(f Format, tracks []models.Track) ([]byte, error) {
	switch f {
	case FormatJSON:
		return ExportToJSON(tracks)
	case FormatCSV:
		return ExportToCSV(tracks)
	case FormatMarkdown:
		return ExportToMarkdown(tracks)
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnsupportedFormat, f)
	}
}

// ExportToJSON renders the playlist.json document with two-space indentation.
func ExportToJSON(tracks []models.Track) ([]byte, error) {
	data, err := marshal(models.NewPlaylistFile(tracks), true)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal playlist: %w", err)
	}
	return data, nil
}

// ExportToCSV renders the exported fields with columns: Title, Artist, Album, ID
func ExportToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Title", "Artist", "Album", "ID"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, t := range models.NewPlaylistFile(tracks).Tracks {
		if err := writer.Write([]string{t.Title, t.Artist, t.Album, t.ID}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders the playlist as a Markdown document.
func ExportToMarkdown(tracks []models.Track) ([]byte, error) {
	playlist := models.NewPlaylistFile(tracks)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", playlist.Name)
	fmt.Fprintf(&buf, "%s\n\n", playlist.Description)
	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", len(playlist.Tracks))

	buf.WriteString("## Tracks\n\n")
	for i, t := range playlist.Tracks {
		albumPart := ""
		if t.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", t.Album)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s `%s`\n", i+1, t.Artist, t.Title, albumPart, t.ID)
	}

	return buf.Bytes(), nil
}

// WriteExport encodes tracks and writes them to dir/f.Filename(), returning the written path.
//
// dir defaults to the working directory and is created when missing.
func WriteExport(dir string, f Format, tracks []models.Track) (string, error) {
	data, err := Export(f, tracks)
	if err != nil {
		return "", err
	}
	return WriteFile(dir, f, data)
}

// WriteFile writes already encoded data to dir/f.Filename(), returning the written path.
func WriteFile(dir string, f Format, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, f.Filename())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
