// Package models defines the domain entities shared by the search, selection and export layers.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs passed between layers
//   - [Track] : a catalog search result, the unit of the selection list
//   - [PlaylistFile] : the exported playlist document (playlist.json)
//   - [ExportedTrack] : the reduced track shape written to exports
//
// 2. Persistent Entities: Database-backed models
//   - [PersistedExport] : one recorded export event in the export history
//
// Persistent entities implement the [Model] interface providing ID, timestamps and validation.
// The [Repository] interface defines standard CRUD operations for database access.
package models
