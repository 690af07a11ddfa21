package view

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/abatilo/taskboard/internal/task"
)

// Project returns the tasks to render for the given filter, sort key and
// search query. A non-empty query overrides the filter and searches the
// full set. The input slice is never modified.
func Project(tasks []task.Task, filter Filter, sortKey SortKey, query string) []task.Task {
	var out []task.Task
	if query != "" {
		out = Search(tasks, query)
	} else {
		out = Apply(tasks, filter)
	}
	Sort(out, sortKey)
	return out
}

// Apply returns a new slice holding the tasks matching filter, in input order.
func Apply(tasks []task.Task, filter Filter) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if matches(t, filter) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t task.Task, filter Filter) bool {
	switch filter {
	case FilterHigh, FilterMedium, FilterLow:
		return t.Database == task.Partition(filter)
	case FilterCompleted:
		return t.IsCompleted()
	case FilterAll:
		return true
	default:
		return true
	}
}

// Search returns a new slice holding the tasks whose title, description,
// status or priority contains query, ignoring case.
func Search(tasks []task.Task, query string) []task.Task {
	needle := strings.ToLower(query)
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle) ||
			strings.Contains(strings.ToLower(t.Status), needle) ||
			strings.Contains(strings.ToLower(t.Priority), needle) {
			out = append(out, t)
		}
	}
	return out
}

// Sort orders tasks in place by key. The sort is stable; an unrecognized key
// leaves the order unchanged.
func Sort(tasks []task.Task, key SortKey) {
	switch key {
	case SortPriority:
		slices.SortStableFunc(tasks, func(a, b task.Task) int {
			return task.PriorityWeight(b.Priority) - task.PriorityWeight(a.Priority)
		})
	case SortDate:
		slices.SortStableFunc(tasks, func(a, b task.Task) int {
			return ParseDate(a.Date).Compare(ParseDate(b.Date))
		})
	case SortStatus:
		slices.SortStableFunc(tasks, func(a, b task.Task) int {
			return task.StatusWeight(a.Status) - task.StatusWeight(b.Status)
		})
	case SortTitle:
		c := collate.New(language.English)
		slices.SortStableFunc(tasks, func(a, b task.Task) int {
			return c.CompareString(a.Title, b.Title)
		})
	}
}

// MissingDate is the instant used for tasks with no date, or a date that
// cannot be parsed, so that they sort after every dated task.
//
//nolint:gochecknoglobals // constant instant
var MissingDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

//nolint:gochecknoglobals // accepted date layouts
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate interprets a task date. Empty or malformed values yield
// MissingDate.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return MissingDate
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d
		}
	}
	return MissingDate
}

// FormatDate renders a task date for display, e.g. "Jan 15, 2024", or
// "No date" when the date is missing or malformed.
func FormatDate(s string) string {
	d := ParseDate(s)
	if d.Equal(MissingDate) {
		return "No date"
	}
	return d.Format("Jan 2, 2006")
}
