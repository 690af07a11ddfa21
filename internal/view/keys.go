// Package view projects the full task set into the ordered, grouped view
// model consumed by every renderer.
package view

import "strings"

// Filter selects a subset of the full task set.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterHigh      Filter = "high"
	FilterMedium    Filter = "medium"
	FilterLow       Filter = "low"
	FilterCompleted Filter = "completed"
)

// Filters lists the recognized filters in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterHigh, FilterMedium, FilterLow, FilterCompleted}
}

// ParseFilter normalizes s and reports whether it is a recognized filter.
// Unrecognized values are returned as-is and behave like FilterAll.
func ParseFilter(s string) (Filter, bool) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Filters() {
		if f == known {
			return f, true
		}
	}
	return f, false
}

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortPriority SortKey = "priority"
	SortDate     SortKey = "date"
	SortStatus   SortKey = "status"
	SortTitle    SortKey = "title"
)

// SortKeys lists the recognized sort keys.
func SortKeys() []SortKey {
	return []SortKey{SortPriority, SortDate, SortStatus, SortTitle}
}

// ParseSortKey normalizes s and reports whether it is a recognized sort key.
// Unrecognized values are returned as-is and leave the order untouched.
func ParseSortKey(s string) (SortKey, bool) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SortKeys() {
		if k == known {
			return k, true
		}
	}
	return k, false
}
