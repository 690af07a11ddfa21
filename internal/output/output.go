// Package output renders tasks and view summaries for the CLI.
package output

import (
	"github.com/abatilo/taskboard/internal/task"
	"github.com/abatilo/taskboard/internal/view"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatTask(t task.Task) string
	FormatTaskList(tasks []task.Task) string
	FormatBoard(b view.Board) string
	FormatStats(c view.Counts, progress []view.Progress) string
	FormatError(err error) string
	FormatMessage(msg string) string
}

// New returns the JSON formatter when asJSON is set, the human one otherwise.
func New(asJSON bool) Formatter {
	if asJSON {
		return NewJSONFormatter()
	}
	return NewHumanFormatter()
}
