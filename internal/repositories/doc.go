// Package repositories implements SQLite persistence for the export history.
//
// Repositories implement [models.Repository] with atomic sequence generation for stable ordering
// and soft deletes via deleted_at timestamps. Deleted records are excluded from queries.
//
// Key Implementations:
//   - [ExportRepository] : one row per playlist file produced by a front end
//
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
