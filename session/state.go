package session

import (
	"github.com/poiesic/geosuggest/core"
)

const (
	// LoadErrorMessage is shown for every load failure.
	LoadErrorMessage = "Error fetching countries. Please try again later."

	// LoadingMessage is shown while the catalog is being fetched.
	LoadingMessage = "Loading countries..."
)

// State is a snapshot of a session.
// Suggestions is never nil and must be treated as read-only.
//
// Seq advances on every input change and selection. A search result is
// applied only if it was started at the current Seq.
type State struct {
	Query       string
	Suggestions []*core.Country
	Loading     bool
	Loaded      bool
	Err         string
	Seq         uint64
}

// Initial returns the state before anything has happened.
func Initial() State {
	return State{Suggestions: []*core.Country{}}
}

// Event is something that happened to a session.
type Event interface {
	event()
}

// QueryChanged records new input text.
type QueryChanged struct {
	Query string
}

// SuggestionsComputed carries the search result for Query, started when
// the session was at Seq.
type SuggestionsComputed struct {
	Query       string
	Seq         uint64
	Suggestions []*core.Country
}

// LoadStarted marks the beginning of the catalog fetch.
type LoadStarted struct{}

// LoadSucceeded marks a completed catalog fetch.
type LoadSucceeded struct {
	Count int
}

// LoadFailed marks a failed catalog fetch. Err is kept for logging only.
type LoadFailed struct {
	Err error
}

// SuggestionSelected records the user picking a suggestion.
type SuggestionSelected struct {
	Country *core.Country
}

func (QueryChanged) event()        {}
func (SuggestionsComputed) event() {}
func (LoadStarted) event()         {}
func (LoadSucceeded) event()       {}
func (LoadFailed) event()          {}
func (SuggestionSelected) event()  {}

// Reduce returns the state that follows s after ev. It never mutates s.
func Reduce(s State, ev Event) State {
	if s.Suggestions == nil {
		s.Suggestions = []*core.Country{}
	}

	switch ev := ev.(type) {
	case QueryChanged:
		s.Seq++
		s.Query = ev.Query
		if ev.Query == "" {
			s.Suggestions = []*core.Country{}
		}

	case SuggestionsComputed:
		// Newer input or a selection happened after this search started
		if ev.Seq != s.Seq || ev.Query != s.Query {
			return s
		}
		if ev.Query == "" || ev.Suggestions == nil {
			s.Suggestions = []*core.Country{}
		} else {
			s.Suggestions = ev.Suggestions
		}

	case LoadStarted:
		s.Loading = true
		s.Loaded = false
		s.Err = ""

	case LoadSucceeded:
		s.Loading = false
		s.Loaded = true
		s.Err = ""

	case LoadFailed:
		s.Loading = false
		s.Loaded = false
		s.Err = LoadErrorMessage

	case SuggestionSelected:
		if ev.Country == nil {
			return s
		}
		s.Seq++
		s.Query = ev.Country.Name
		s.Suggestions = []*core.Country{}
	}

	return s
}
