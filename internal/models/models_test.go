package models

import (
	"encoding/json"
	"testing"

	"github.com/go-test/deep"
)

func TestNewPlaylistFile(t *testing.T) {
	t.Run("drops image and duration", func(t *testing.T) {
		tracks := []Track{
			{Title: "Imagine", Artist: "John Lennon", Album: "Imagine", Image: "https://i.scdn.co/300", ID: "abc123", DurationSeconds: 183},
			{Title: "Jealous Guy", Artist: "John Lennon", Album: "Imagine", Image: "https://i.scdn.co/301", ID: "def456", DurationSeconds: 254},
		}

		got := NewPlaylistFile(tracks)
		want := PlaylistFile{
			Name:        "Student Playlist",
			Description: "A playlist created by students.",
			Tracks: []ExportedTrack{
				{Title: "Imagine", Artist: "John Lennon", Album: "Imagine", ID: "abc123"},
				{Title: "Jealous Guy", Artist: "John Lennon", Album: "Imagine", ID: "def456"},
			},
		}

		if diff := deep.Equal(got, want); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("empty selection encodes as empty array", func(t *testing.T) {
		data, err := json.Marshal(NewPlaylistFile(nil))
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		want := `{"name":"Student Playlist","description":"A playlist created by students.","tracks":[]}`
		if string(data) != want {
			t.Errorf("got %s, want %s", data, want)
		}
	})
}

func TestPersistedExport(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name    string
			export  *PersistedExport
			wantErr bool
		}{
			{name: "valid", export: NewPersistedExport("json", "playlist.json", 2)},
			{name: "missing format", export: NewPersistedExport("", "playlist.json", 2), wantErr: true},
			{name: "missing filename", export: NewPersistedExport("json", "", 2), wantErr: true},
			{name: "negative count", export: NewPersistedExport("json", "playlist.json", -1), wantErr: true},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if err := tt.export.Validate(); (err != nil) != tt.wantErr {
					t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			})
		}
	})

	t.Run("SetFilename bumps updatedAt", func(t *testing.T) {
		e := NewPersistedExport("json", "playlist.json", 1)
		before := e.UpdatedAt()
		e.SetFilename("other.json")

		if e.Filename() != "other.json" {
			t.Errorf("expected other.json, got %s", e.Filename())
		}
		if e.UpdatedAt().Before(before) {
			t.Error("updatedAt moved backwards")
		}
	})
}
