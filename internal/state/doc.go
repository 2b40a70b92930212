// Package state implements the music browser: one [State] value owning the search box,
// the suggestion list, the selection list and the admin gate.
//
// # Ownership
//
// A State is not safe for concurrent use. Front ends mutate it from a single owner: the
// bubbletea update loop in the TUI, or a per-session mutex in the web app. Network calls
// happen off the owner through [Run], whose [Result] is handed back to [State.Resolve].
//
// # Request Sequencing
//
// Every call to [State.SetQuery] issues a [Request] carrying a monotonically increasing
// sequence number. [State.Resolve] applies a result only when its sequence is the latest one
// issued, so a slow response to an earlier keystroke can never overwrite newer suggestions.
// Selecting a track also advances the sequence, discarding whatever was still in flight.
// [Inflight] additionally cancels the context of the superseded request.
//
// # Admin Gate
//
// [State.SetCode] compares the entered code with the configured one by strict equality and
// unlocks [State.Delete] and [State.Export]. The gate is a UI toggle for a shared classroom
// screen. It is not access control: the code ships with the client.
package state
