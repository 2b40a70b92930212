package state

import (
	"fmt"
	"slices"

	"github.com/desertthunder/setlist/internal/formatter"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

// Request is a search ticket issued by [State.SetQuery].
type Request struct {
	Seq   uint64
	Query string
	Skip  bool // empty query: nothing to fetch
}

// Snapshot is a copy of the state for rendering.
type Snapshot struct {
	Query       string
	Suggestions []models.Track
	Loading     bool
	Selection   []models.Track
	Code        string
	IsAdmin     bool
	SidebarOpen bool
}

// CanAdd reports whether the "Add" action (select the first suggestion) is available.
func (s Snapshot) CanAdd() bool {
	return !s.Loading && len(s.Suggestions) > 0
}

// State is the music browser's view state.
type State struct {
	adminCode string

	query       string
	suggestions []models.Track
	loading     bool
	seq         uint64

	selection []models.Track

	code        string
	isAdmin     bool
	sidebarOpen bool
}

// New returns an empty State whose admin gate opens for adminCode ([shared.DefaultAdminCode] when empty).
func New(adminCode string) *State {
	if adminCode == "" {
		adminCode = shared.DefaultAdminCode
	}
	return &State{adminCode: adminCode}
}

// SetQuery replaces the query and issues the search request for it.
//
// An empty query clears the suggestions and returns a Skip request.
func (s *State) SetQuery(q string) Request {
	s.seq++
	s.query = q

	if q == "" {
		s.suggestions = nil
		s.loading = false
		return Request{Seq: s.seq, Query: q, Skip: true}
	}

	s.loading = true
	return Request{Seq: s.seq, Query: q}
}

// Resolve applies the outcome of req and reports whether it was applied.
//
// Outcomes of superseded requests are dropped. A failed search leaves the suggestion list empty.
func (s *State) Resolve(req Request, tracks []models.Track, err error) bool {
	if req.Skip || req.Seq != s.seq {
		return false
	}

	s.loading = false
	if err != nil {
		s.suggestions = nil
		return true
	}
	s.suggestions = slices.Clone(tracks)
	return true
}

// Latest returns the sequence number of the most recently issued request.
func (s *State) Latest() uint64 { return s.seq }

// Select appends track to the selection list and leaves search mode.
//
// The track must be one of the current suggestions.
func (s *State) Select(track models.Track) error {
	if !slices.Contains(s.suggestions, track) {
		return fmt.Errorf("%w: track %q is not a current suggestion", shared.ErrInvalidArgument, track.ID)
	}
	s.appendSelection(track)
	return nil
}

// SelectAt selects the suggestion at index i.
func (s *State) SelectAt(i int) error {
	if i < 0 || i >= len(s.suggestions) {
		return fmt.Errorf("%w: suggestion %d of %d", shared.ErrIndexOutOfRange, i, len(s.suggestions))
	}
	s.appendSelection(s.suggestions[i])
	return nil
}

// SelectFirst selects the first suggestion; unavailable while a search is loading.
func (s *State) SelectFirst() error {
	if s.loading || len(s.suggestions) == 0 {
		return shared.ErrNothingToSelect
	}
	s.appendSelection(s.suggestions[0])
	return nil
}

func (s *State) appendSelection(track models.Track) {
	s.selection = append(s.selection, track)
	s.query = ""
	s.suggestions = nil
	s.loading = false
	s.seq++
}

// Delete removes the selection entry at index i, preserving the order of the rest.
func (s *State) Delete(i int) error {
	if !s.isAdmin {
		return shared.ErrAdminRequired
	}
	if i < 0 || i >= len(s.selection) {
		return fmt.Errorf("%w: selection %d of %d", shared.ErrIndexOutOfRange, i, len(s.selection))
	}
	s.selection = slices.Delete(s.selection, i, i+1)
	return nil
}

// SetCode stores the entered admin code and recomputes the gate.
func (s *State) SetCode(code string) {
	s.code = code
	s.isAdmin = code == s.adminCode
}

// IsAdmin reports whether the admin gate is open.
func (s *State) IsAdmin() bool { return s.isAdmin }

// ToggleSidebar opens or closes the admin panel.
func (s *State) ToggleSidebar() { s.sidebarOpen = !s.sidebarOpen }

// Export encodes the selection list in format f. Requires the admin gate.
//
// A serialization failure is returned to the caller and leaves the state untouched.
func (s *State) Export(f formatter.Format) ([]byte, error) {
	if !s.isAdmin {
		return nil, shared.ErrAdminRequired
	}
	return formatter.Export(f, s.selection)
}

// Selection returns a copy of the selection list.
func (s *State) Selection() []models.Track { return slices.Clone(s.selection) }

// Suggestions returns a copy of the current suggestions.
func (s *State) Suggestions() []models.Track { return slices.Clone(s.suggestions) }

// Snapshot copies the state for rendering.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Query:       s.query,
		Suggestions: slices.Clone(s.suggestions),
		Loading:     s.loading,
		Selection:   slices.Clone(s.selection),
		Code:        s.code,
		IsAdmin:     s.isAdmin,
		SidebarOpen: s.sidebarOpen,
	}
}
