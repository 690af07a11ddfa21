package storage

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abatilo/taskboard/internal/task"
)

const frontmatterDelimiter = "---"

// ParseMarkdown parses a markdown file with YAML frontmatter into a Task.
func ParseMarkdown(content []byte) (task.Task, error) {
	lines := strings.Split(string(content), "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != frontmatterDelimiter {
		return task.Task{}, &parseError{"missing YAML frontmatter"}
	}

	var frontmatterEnd int
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelimiter {
			frontmatterEnd = i
			break
		}
	}
	if frontmatterEnd == 0 {
		return task.Task{}, &parseError{"unclosed YAML frontmatter"}
	}

	var t task.Task
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:frontmatterEnd], "\n")), &t); err != nil {
		return task.Task{}, &parseError{"invalid YAML: " + err.Error()}
	}
	if !task.IsValidPartition(t.Database) {
		return task.Task{}, &parseError{"invalid database: " + string(t.Database)}
	}

	if frontmatterEnd+1 < len(lines) {
		t.Description = strings.TrimSpace(strings.Join(lines[frontmatterEnd+1:], "\n"))
	}
	return t, nil
}

// SerializeMarkdown converts a Task to markdown with YAML frontmatter. The
// description becomes the body.
func SerializeMarkdown(t task.Task) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(frontmatterDelimiter + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2) //nolint:mnd // yaml indent
	if err := enc.Encode(t); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	buf.WriteString(frontmatterDelimiter + "\n")

	if t.Description != "" {
		buf.WriteString("\n")
		buf.WriteString(t.Description)
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// parseError represents a parsing error.
type parseError struct {
	msg string
}

func (e *parseError) Error() string {
	return e.msg
}
