package task

import "strings"

// Partition identifies the source database a task was loaded from.
type Partition string

const (
	PartitionHigh   Partition = "high"
	PartitionMedium Partition = "medium"
	PartitionLow    Partition = "low"
)

// Partitions lists every partition in display order.
//
//nolint:gochecknoglobals // fixed display order
var Partitions = []Partition{PartitionHigh, PartitionMedium, PartitionLow}

// Label returns the capitalized display label ("High", "Medium", "Low").
func (p Partition) Label() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

// IsValidPartition checks if a partition string is valid.
func IsValidPartition(p Partition) bool {
	switch p {
	case PartitionHigh, PartitionMedium, PartitionLow:
		return true
	default:
		return false
	}
}

// Default field values applied when a record carries no usable property.
const (
	DefaultTitle    = "Untitled Task"
	DefaultStatus   = "Not started"
	DefaultPriority = "Low"
	StatusCompleted = "Completed"
)

// Task is the canonical dashboard task. Values are never mutated after
// normalization.
type Task struct {
	ID          string    `json:"id"                yaml:"id"`
	Title       string    `json:"title"             yaml:"title"`
	Description string    `json:"description"       yaml:"-"` // Stored as markdown body, not frontmatter
	Status      string    `json:"status"            yaml:"status"`
	Priority    string    `json:"priority"          yaml:"priority"`
	Date        string    `json:"date,omitempty"    yaml:"date,omitempty"`
	Database    Partition `json:"database"          yaml:"database"`
	URL         string    `json:"url"               yaml:"url,omitempty"`
}

// Fold lowercases s, trims it and collapses inner whitespace so that
// "  In   Progress " and "in progress" compare equal.
func Fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// IsCompleted reports whether the task status is "completed", ignoring case
// and surrounding whitespace.
func (t Task) IsCompleted() bool {
	return Fold(t.Status) == "completed"
}

// PriorityWeight returns the sort weight of a display priority
// (higher = more important). Unknown priorities weigh 0.
func PriorityWeight(priority string) int {
	switch Fold(priority) {
	case "high":
		return 3
	case "medium":
		return 2
	case "low":
		return 1
	default:
		return 0
	}
}

// StatusWeight returns the sort weight of a status (lower = earlier).
// Statuses outside the three known buckets sort after all of them.
func StatusWeight(status string) int {
	switch Fold(status) {
	case "not started":
		return 1
	case "in progress":
		return 2
	case "completed":
		return 3
	default:
		return 4
	}
}
