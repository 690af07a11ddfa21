package view

import (
	"slices"

	"github.com/abatilo/taskboard/internal/task"
)

// State is the immutable application state: the full task set plus the
// active filter, sort key and search query. Every With method returns a new
// State and leaves the receiver untouched.
type State struct {
	tasks   []task.Task
	filter  Filter
	sort    SortKey
	query   string
	applied uint64
}

// NewState creates an empty State.
func NewState(filter Filter, sort SortKey) State {
	return State{filter: filter, sort: sort}
}

// Tasks returns a copy of the full task set.
func (s State) Tasks() []task.Task { return slices.Clone(s.tasks) }

// Filter returns the active filter.
func (s State) Filter() Filter { return s.filter }

// Sort returns the active sort key.
func (s State) Sort() SortKey { return s.sort }

// Query returns the active search query.
func (s State) Query() string { return s.query }

// Applied returns the sequence number of the fetch that produced the task
// set, 0 before the first successful fetch.
func (s State) Applied() uint64 { return s.applied }

// WithFilter returns a State with filter active.
func (s State) WithFilter(filter Filter) State {
	s.filter = filter
	return s
}

// WithSort returns a State with key active.
func (s State) WithSort(key SortKey) State {
	s.sort = key
	return s
}

// WithQuery returns a State with query active.
func (s State) WithQuery(query string) State {
	s.query = query
	return s
}

// WithTasks replaces the full task set with the result of fetch seq. The
// result is discarded, and ok is false, when a fetch at least as recent has
// already been applied.
func (s State) WithTasks(seq uint64, tasks []task.Task) (State, bool) {
	if seq <= s.applied {
		return s, false
	}
	s.tasks = slices.Clone(tasks)
	s.applied = seq
	return s, true
}

// Lookup finds a task by ID in the full set.
func (s State) Lookup(id string) (task.Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}

// ViewModel is everything a renderer needs, derived from one State.
type ViewModel struct {
	Filter   Filter      `json:"filter"`
	Sort     SortKey     `json:"sort"`
	Query    string      `json:"query,omitempty"`
	Tasks    []task.Task `json:"tasks"`
	Board    Board       `json:"board"`
	Counts   Counts      `json:"counts"`
	Progress []Progress  `json:"progress"`
}

// View projects the state. Tasks and Board follow the filter, sort and
// query; Counts and Progress always cover the full set.
func (s State) View() ViewModel {
	projected := Project(s.tasks, s.filter, s.sort, s.query)
	return ViewModel{
		Filter:   s.filter,
		Sort:     s.sort,
		Query:    s.query,
		Tasks:    projected,
		Board:    Group(projected),
		Counts:   Count(s.tasks),
		Progress: ProgressOf(s.tasks),
	}
}
