package models

import (
	"fmt"
	"time"
)

// PersistedExport records one playlist export in the export history.
type PersistedExport struct {
	id         string
	sequence   int
	format     string
	filename   string
	trackCount int
	createdAt  time.Time
	updatedAt  time.Time
	deletedAt  *time.Time
}

var _ Model = (*PersistedExport)(nil)

// NewPersistedExport creates an unsaved export record timestamped now.
func NewPersistedExport(format, filename string, trackCount int) *PersistedExport {
	now := time.Now().UTC()
	return &PersistedExport{
		format:     format,
		filename:   filename,
		trackCount: trackCount,
		createdAt:  now,
		updatedAt:  now,
	}
}

// RestorePersistedExport rebuilds a record from stored columns.
func RestorePersistedExport(id string, sequence int, format, filename string, trackCount int, createdAt, updatedAt time.Time, deletedAt *time.Time) *PersistedExport {
	return &PersistedExport{
		id:         id,
		sequence:   sequence,
		format:     format,
		filename:   filename,
		trackCount: trackCount,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
		deletedAt:  deletedAt,
	}
}

func (e *PersistedExport) ID() string            { return e.id }
func (e *PersistedExport) Sequence() int         { return e.sequence }
func (e *PersistedExport) Format() string        { return e.format }
func (e *PersistedExport) Filename() string      { return e.filename }
func (e *PersistedExport) TrackCount() int       { return e.trackCount }
func (e *PersistedExport) CreatedAt() time.Time  { return e.createdAt }
func (e *PersistedExport) UpdatedAt() time.Time  { return e.updatedAt }
func (e *PersistedExport) DeletedAt() *time.Time { return e.deletedAt }

// SetID assigns the generated identifier and sequence before insertion.
func (e *PersistedExport) SetID(id string, sequence int) {
	e.id = id
	e.sequence = sequence
}

// SetFilename updates the recorded file name and bumps updatedAt.
func (e *PersistedExport) SetFilename(filename string) {
	e.filename = filename
	e.updatedAt = time.Now().UTC()
}

// Validate checks required fields.
func (e *PersistedExport) Validate() error {
	switch {
	case e.format == "":
		return fmt.Errorf("export format is required")
	case e.filename == "":
		return fmt.Errorf("export filename is required")
	case e.trackCount < 0:
		return fmt.Errorf("track count must not be negative")
	}
	return nil
}
