package search

import (
	"errors"

	"github.com/handiism/pexels-search/internal/model"
)

// ErrQueryFailed wraps every error reported by the photo search
// collaborator. State.LastError matches it with errors.Is.
var ErrQueryFailed = errors.New("query failed")

// PhotoUIState is the local, per-photo interaction state.
type PhotoUIState struct {
	Liked bool
	// Toggled is set once the user has changed the entry. Toggled entries
	// are kept when the photo leaves the result set.
	Toggled bool
}

// State is an immutable snapshot of the controller.
//
// Snapshots are copies: changing a snapshot's slices or map does not
// affect the controller or other snapshots.
type State struct {
	// Query is the most recently submitted non-blank query.
	Query string

	// Results is the last successful result set, in API order.
	Results []model.Photo

	// UI holds per-photo state keyed by photo ID: one entry for each
	// current result plus every photo the user has toggled. Untouched
	// entries are dropped when a new result set replaces them, so the map
	// grows only with user actions. A toggled photo that shows up again
	// keeps its liked flag.
	UI map[string]PhotoUIState

	// ExpandedID is the photo currently shown in detail, or "".
	ExpandedID string

	// Loading is true while the latest request has not completed.
	Loading bool

	// LastError is set when the latest request failed. Results then still
	// holds the previous result set.
	LastError error

	// Seq is the sequence number of the most recently issued request.
	Seq uint64

	// Version increases by one with every published change.
	Version uint64
}

// Liked reports whether the photo is liked, falling back to the API value
// for photos the controller has not seen.
func (s State) Liked(photo model.Photo) bool {
	if ui, ok := s.UI[photo.ID]; ok {
		return ui.Liked
	}
	return photo.Liked
}

// Expanded reports whether the photo with the given id is expanded.
func (s State) Expanded(id string) bool {
	return id != "" && s.ExpandedID == id
}

// ExpandedPhoto returns the expanded photo, if any.
func (s State) ExpandedPhoto() (model.Photo, bool) {
	if s.ExpandedID == "" {
		return model.Photo{}, false
	}
	for _, p := range s.Results {
		if p.ID == s.ExpandedID {
			return p, true
		}
	}
	return model.Photo{}, false
}

func (s State) clone() State {
	out := s
	out.Results = append([]model.Photo(nil), s.Results...)
	out.UI = make(map[string]PhotoUIState, len(s.UI))
	for id, ui := range s.UI {
		out.UI[id] = ui
	}
	return out
}
