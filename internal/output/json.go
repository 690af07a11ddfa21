package output

import (
	"encoding/json"

	"github.com/abatilo/taskboard/internal/task"
	"github.com/abatilo/taskboard/internal/view"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// marshalJSON marshals a value to indented JSON with a trailing newline.
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// FormatTask formats a single task as JSON.
func (f *JSONFormatter) FormatTask(t task.Task) string {
	return marshalJSON(t)
}

// FormatTaskList formats a list of tasks as JSON.
func (f *JSONFormatter) FormatTaskList(tasks []task.Task) string {
	if tasks == nil {
		tasks = []task.Task{}
	}
	return marshalJSON(tasks)
}

// FormatBoard formats grouped tasks as JSON.
func (f *JSONFormatter) FormatBoard(b view.Board) string {
	return marshalJSON(b)
}

// progressJSON adds the computed percentage to a Progress.
type progressJSON struct {
	view.Progress
	Percent float64 `json:"percent"`
}

// statsJSON is the JSON representation of summary statistics.
type statsJSON struct {
	Counts   view.Counts    `json:"counts"`
	Progress []progressJSON `json:"progress"`
}

// FormatStats formats counts and progress as JSON.
func (f *JSONFormatter) FormatStats(c view.Counts, progress []view.Progress) string {
	out := statsJSON{Counts: c, Progress: make([]progressJSON, len(progress))}
	for i, p := range progress {
		out.Progress[i] = progressJSON{Progress: p, Percent: p.Percent()}
	}
	return marshalJSON(out)
}

// errorJSON is the JSON representation of an error.
type errorJSON struct {
	Error string `json:"error"`
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorJSON{Error: err.Error()})
}

// messageJSON is the JSON representation of a message.
type messageJSON struct {
	Message string `json:"message"`
}

// FormatMessage formats a simple message as JSON.
func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageJSON{Message: msg})
}
