package output

import (
	"fmt"
	"strings"

	"github.com/abatilo/taskboard/internal/task"
	"github.com/abatilo/taskboard/internal/view"
)

const progressWidth = 20

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct{}

// NewHumanFormatter creates a new HumanFormatter.
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// FormatTask formats a single task with all of its details.
func (f *HumanFormatter) FormatTask(t task.Task) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%s] %s\n", t.ID, t.Title)
	fmt.Fprintf(&sb, "  Status:   %s\n", t.Status)
	fmt.Fprintf(&sb, "  Priority: %s\n", t.Priority)
	fmt.Fprintf(&sb, "  Database: %s\n", t.Database.Label())
	fmt.Fprintf(&sb, "  Due:      %s\n", view.FormatDate(t.Date))
	if t.URL != "" {
		fmt.Fprintf(&sb, "  Open in Notion: %s\n", t.URL)
	}
	if t.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(t.Description)
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatTaskList formats a list of tasks for display.
func (f *HumanFormatter) FormatTaskList(tasks []task.Task) string {
	if len(tasks) == 0 {
		return "No tasks found.\n"
	}

	var sb strings.Builder
	for _, t := range tasks {
		sb.WriteString(f.formatTaskLine(t))
	}
	return sb.String()
}

// FormatBoard formats the tasks grouped by partition, highest first.
func (f *HumanFormatter) FormatBoard(b view.Board) string {
	var sb strings.Builder
	for i, p := range task.Partitions {
		if i > 0 {
			sb.WriteString("\n")
		}
		tasks := b.Get(p)
		fmt.Fprintf(&sb, "%s Priority (%d)\n", p.Label(), len(tasks))
		if len(tasks) == 0 {
			fmt.Fprintf(&sb, "  No %s priority tasks found\n", p)
			continue
		}
		for _, t := range tasks {
			sb.WriteString("  ")
			sb.WriteString(f.formatTaskLine(t))
		}
	}
	return sb.String()
}

// FormatStats formats summary counts and per-partition progress.
func (f *HumanFormatter) FormatStats(c view.Counts, progress []view.Progress) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "High priority:   %d\n", c.High)
	fmt.Fprintf(&sb, "Medium priority: %d\n", c.Medium)
	fmt.Fprintf(&sb, "Low priority:    %d\n", c.Low)
	fmt.Fprintf(&sb, "Completed:       %d\n", c.Completed)

	if len(progress) > 0 {
		sb.WriteString("\n")
	}
	for _, p := range progress {
		fmt.Fprintf(&sb, "%-7s %s %d/%d completed (%.0f%%)\n",
			p.Partition.Label(), progressBar(p.Percent()), p.Completed, p.Total, p.Percent())
	}
	return sb.String()
}

// formatTaskLine formats a single task as a compact one-liner.
func (f *HumanFormatter) formatTaskLine(t task.Task) string {
	due := ""
	if t.Date != "" {
		due = " (due " + view.FormatDate(t.Date) + ")"
	}
	return fmt.Sprintf("%s %-6s [%s] %s%s\n", f.statusIcon(t.Status), t.Priority, t.ID, t.Title, due)
}

func (f *HumanFormatter) statusIcon(s string) string {
	switch task.Fold(s) {
	case "not started":
		return "[ ]"
	case "in progress":
		return "[*]"
	case "completed":
		return "[X]"
	default:
		return "[?]"
	}
}

func progressBar(percent float64) string {
	filled := int(percent / 100 * progressWidth) //nolint:mnd // percentage
	filled = max(0, min(progressWidth, filled))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", progressWidth-filled) + "]"
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err.Error())
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}
