// Package normalize maps heterogeneous source records onto the canonical
// task shape.
package normalize

import (
	"strings"

	"github.com/abatilo/taskboard/internal/record"
	"github.com/abatilo/taskboard/internal/task"
)

// Field names a semantic task field resolved from record properties.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldStatus      Field = "status"
	FieldPriority    Field = "priority"
	FieldDate        Field = "date"
)

// Synonyms lists, per field, the property names accepted for it in
// resolution order. The first name present in a record wins.
//
//nolint:gochecknoglobals // lookup table
var Synonyms = map[Field][]string{
	FieldTitle:       {"Name", "name", "Title", "title", "Task", "task"},
	FieldDescription: {"Description", "description", "Notes", "notes", "Details", "details"},
	FieldStatus:      {"Status", "status", "State", "state"},
	FieldPriority:    {"Priority", "priority", "Importance", "importance"},
	FieldDate:        {"Due Date", "due_date", "Date", "date", "Deadline", "deadline"},
}

// Lookup returns the value of the first synonym of field present in props.
// ok is false when none of the synonyms is present.
func Lookup(props map[string]record.PropertyValue, field Field) (record.PropertyValue, bool) {
	for _, name := range Synonyms[field] {
		if v, found := props[name]; found {
			return v, true
		}
	}
	return record.PropertyValue{}, false
}

// Options tune normalization.
type Options struct {
	// PartitionPriorityFallback labels records without a usable priority
	// property with their partition ("High", "Medium", "Low") instead of "Low".
	PartitionPriorityFallback bool
}

// Normalizer converts raw records into tasks.
type Normalizer struct {
	opts Options
}

// New creates a Normalizer.
func New(opts Options) *Normalizer {
	return &Normalizer{opts: opts}
}

// Normalize converts one record loaded from partition into a Task. It is
// total: absent or unusable properties fall back to the field defaults.
func Normalize(raw record.RawRecord, partition task.Partition) task.Task {
	return New(Options{}).Normalize(raw, partition)
}

// Normalize converts one record loaded from partition into a Task.
func (n *Normalizer) Normalize(raw record.RawRecord, partition task.Partition) task.Task {
	priorityDefault := task.DefaultPriority
	if n.opts.PartitionPriorityFallback && task.IsValidPartition(partition) {
		priorityDefault = partition.Label()
	}

	t := task.Task{
		ID:          raw.ID,
		Title:       resolveText(raw.Properties, FieldTitle, task.DefaultTitle),
		Description: resolveText(raw.Properties, FieldDescription, ""),
		Status:      resolveStatus(raw.Properties),
		Priority:    resolvePriority(raw.Properties, priorityDefault),
		Date:        resolveDate(raw.Properties),
		Database:    partition,
		URL:         raw.URL,
	}
	if t.ID == "" {
		t.ID = task.StableID(partition, t.Title, t.URL)
	}
	return t
}

func resolveText(props map[string]record.PropertyValue, field Field, def string) string {
	v, ok := Lookup(props, field)
	if !ok {
		return def
	}
	switch v.Kind {
	case record.KindTitle, record.KindRichText:
		return strings.Join(v.Text, "")
	default:
		return def
	}
}

func resolveStatus(props map[string]record.PropertyValue) string {
	v, ok := Lookup(props, FieldStatus)
	if !ok {
		return task.DefaultStatus
	}
	switch v.Kind {
	case record.KindSelect, record.KindMultiSelect:
		return firstName(v, task.DefaultStatus)
	case record.KindCheckbox:
		if v.Checked {
			return task.StatusCompleted
		}
		return task.DefaultStatus
	default:
		return task.DefaultStatus
	}
}

func resolvePriority(props map[string]record.PropertyValue, def string) string {
	v, ok := Lookup(props, FieldPriority)
	if !ok {
		return def
	}
	switch v.Kind {
	case record.KindSelect, record.KindMultiSelect:
		return firstName(v, def)
	default:
		return def
	}
}

func resolveDate(props map[string]record.PropertyValue) string {
	v, ok := Lookup(props, FieldDate)
	if !ok || v.Kind != record.KindDate {
		return ""
	}
	return v.Start
}

func firstName(v record.PropertyValue, def string) string {
	if len(v.Names) == 0 {
		return def
	}
	return v.Names[0]
}
