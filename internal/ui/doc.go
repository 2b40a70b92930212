// Package ui implements the terminal front end using bubbletea's Elm architecture.
//
// The [Model] wraps a [state.State] and renders, top to bottom:
//  1. the search field with its suggestions (enter adds the highlighted one)
//  2. the listed music with m:ss durations
//  3. the admin panel (ctrl+a) holding the admin code field
//
// Every keystroke in the search field issues a request ticket and a [tea.Cmd] that runs it.
// Starting a search cancels the previous one; a response for anything but the latest ticket is dropped.
//
// Delete (ctrl+d, on the listed music) and save (ctrl+s) only act once the admin code matches.
// Saved playlists are written to the export directory and recorded in the export history when one is configured.
package ui
