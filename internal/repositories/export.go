package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

// Recorder appends entries to the export history.
//
// Front ends depend on this rather than on [ExportRepository] so that a missing database
// can be represented by a nil Recorder.
type Recorder interface {
	Record(format, filename string, trackCount int) (*models.PersistedExport, error)
}

// ExportRepository implements models.Repository[*models.PersistedExport] for the export history.
type ExportRepository struct {
	db *sql.DB
}

var (
	_ models.Repository[*models.PersistedExport] = (*ExportRepository)(nil)
	_ Recorder                                   = (*ExportRepository)(nil)
)

// NewExportRepository creates a new ExportRepository with the given database connection
func NewExportRepository(db *sql.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

const exportColumns = `id, sequence, format, filename, track_count, created_at, updated_at, deleted_at`

// Create inserts a new [models.PersistedExport] with generated ID and sequence
func (r *ExportRepository) Create(export *models.PersistedExport) error {
	if err := export.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "exports")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO exports (id, sequence, format, filename, track_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		export.Format(),
		export.Filename(),
		export.TrackCount(),
		export.CreatedAt(),
		export.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert export: %w", err)
	}

	export.SetID(id, sequence)
	return nil
}

// Record builds and stores an export entry in one step.
func (r *ExportRepository) Record(format, filename string, trackCount int) (*models.PersistedExport, error) {
	export := models.NewPersistedExport(format, filename, trackCount)
	if err := r.Create(export); err != nil {
		return nil, err
	}
	return export, nil
}

// Get retrieves an export by ID, excluding soft-deleted entries
func (r *ExportRepository) Get(id string) (*models.PersistedExport, error) {
	query := `SELECT ` + exportColumns + ` FROM exports WHERE id = ? AND deleted_at IS NULL`
	return r.scan(r.db.QueryRow(query, id))
}

// Update rewrites the mutable columns of an existing export
func (r *ExportRepository) Update(export *models.PersistedExport) error {
	if err := export.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE exports
		SET format = ?, filename = ?, track_count = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		export.Format(),
		export.Filename(),
		export.TrackCount(),
		export.UpdatedAt(),
		export.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update export: %w", err)
	}

	return expectOneRow(result, export.ID())
}

// Delete soft-deletes an export by ID
func (r *ExportRepository) Delete(id string) error {
	query := `
		UPDATE exports
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete export: %w", err)
	}

	return expectOneRow(result, id)
}

// List retrieves exports newest first, excluding soft-deleted entries.
//
// Supported criteria: "format" (string) and "limit" (int, ignored when not positive).
func (r *ExportRepository) List(criteria map[string]any) ([]*models.PersistedExport, error) {
	query := `SELECT ` + exportColumns + ` FROM exports WHERE deleted_at IS NULL`
	args := []any{}

	if format, ok := criteria["format"].(string); ok && format != "" {
		query += " AND format = ?"
		args = append(args, format)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer rows.Close()

	var exports []*models.PersistedExport
	for rows.Next() {
		export, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		exports = append(exports, export)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return exports, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scan reads one row from either [sql.Row] or [sql.Rows]
func (r *ExportRepository) scan(row scanner) (*models.PersistedExport, error) {
	var (
		id         string
		sequence   int
		format     string
		filename   string
		trackCount int
		createdAt  time.Time
		updatedAt  time.Time
		deletedAt  sql.NullTime
	)

	err := row.Scan(&id, &sequence, &format, &filename, &trackCount, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("export not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan export: %w", err)
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestorePersistedExport(id, sequence, format, filename, trackCount, createdAt, updatedAt, deleted), nil
}

func expectOneRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("export not found or already deleted: %s", id)
	}
	return nil
}
