package models

import "strings"

// MoviesErrorMessage is the only error text ever shown to the user for the
// movies list, whatever went wrong underneath.
const MoviesErrorMessage = "Error fetching movies. Please try again later."

// MaxTrending caps the trending list.
const MaxTrending = 4

// BrowseState is a point-in-time copy of the browse controller's view state.
// Slices are owned by the snapshot and safe to retain.
type BrowseState struct {
	SearchTerm   string  `json:"searchTerm"`
	ErrorMessage string  `json:"errorMessage,omitempty"`
	Movies       []Movie `json:"movies"`
	Trending     []Movie `json:"trending"`
	Loading      bool    `json:"loading"`
	// Seq is the sequence number of the latest issued movies request.
	Seq uint64 `json:"seq"`
	// Version increases with every state change.
	Version uint64 `json:"version"`
}

// ShowTrending reports whether the trending section is visible. Any typed
// text hides it, including whitespace.
func (s BrowseState) ShowTrending() bool {
	return s.SearchTerm == ""
}

// Heading is the title shown above the results section.
func (s BrowseState) Heading() string {
	if s.SearchTerm != "" {
		return `Search Results for "` + s.SearchTerm + `"`
	}
	return "Popular"
}

// EffectiveQuery maps raw search input to the query sent upstream. Blank
// input means "no query"; anything else is passed through verbatim.
func EffectiveQuery(term string) string {
	if strings.TrimSpace(term) == "" {
		return ""
	}
	return term
}
