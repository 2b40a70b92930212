package models

// Default playlist metadata written by every export.
const (
	PlaylistName        = "Student Playlist"
	PlaylistDescription = "A playlist created by students."
)

// Track is a catalog search result and the unit of the selection list.
type Track struct {
	Title           string `json:"title"`
	Artist          string `json:"artist"` // first credited artist only
	Album           string `json:"album"`
	Image           string `json:"image"` // medium artwork URL
	ID              string `json:"id"`
	DurationSeconds int    `json:"durationSeconds"`
}

// ExportedTrack is the subset of [Track] written to playlist files; image and duration are dropped.
type ExportedTrack struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	ID     string `json:"id"`
}

// PlaylistFile is the playlist.json document.
type PlaylistFile struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Tracks      []ExportedTrack `json:"tracks"`
}

// Exported reduces t to its exported fields.
func (t Track) Exported() ExportedTrack {
	return ExportedTrack{Title: t.Title, Artist: t.Artist, Album: t.Album, ID: t.ID}
}

// NewPlaylistFile builds the export document for tracks, preserving order.
//
// Tracks is never nil so an empty selection encodes as [].
func NewPlaylistFile(tracks []Track) PlaylistFile {
	out := make([]ExportedTrack, len(tracks))
	for i, t := range tracks {
		out[i] = t.Exported()
	}
	return PlaylistFile{Name: PlaylistName, Description: PlaylistDescription, Tracks: out}
}
