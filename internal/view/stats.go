package view

import "github.com/abatilo/taskboard/internal/task"

// Board holds the projected tasks grouped by partition, each group keeping
// the projection order.
type Board struct {
	High   []task.Task `json:"high"`
	Medium []task.Task `json:"medium"`
	Low    []task.Task `json:"low"`
}

// Group splits ordered tasks by partition.
func Group(tasks []task.Task) Board {
	b := Board{
		High:   []task.Task{},
		Medium: []task.Task{},
		Low:    []task.Task{},
	}
	for _, t := range tasks {
		switch t.Database {
		case task.PartitionHigh:
			b.High = append(b.High, t)
		case task.PartitionMedium:
			b.Medium = append(b.Medium, t)
		case task.PartitionLow:
			b.Low = append(b.Low, t)
		}
	}
	return b
}

// Get returns the group for partition p.
func (b Board) Get(p task.Partition) []task.Task {
	switch p {
	case task.PartitionHigh:
		return b.High
	case task.PartitionMedium:
		return b.Medium
	case task.PartitionLow:
		return b.Low
	default:
		return nil
	}
}

// Counts are the summary statistics of the full, unfiltered task set.
type Counts struct {
	High      int `json:"high"`
	Medium    int `json:"medium"`
	Low       int `json:"low"`
	Completed int `json:"completed"`
}

// Count computes summary statistics. Pass the full task set: the counts must
// not reflect any filter or search.
func Count(tasks []task.Task) Counts {
	var c Counts
	for _, t := range tasks {
		switch t.Database {
		case task.PartitionHigh:
			c.High++
		case task.PartitionMedium:
			c.Medium++
		case task.PartitionLow:
			c.Low++
		}
		if t.IsCompleted() {
			c.Completed++
		}
	}
	return c
}

// Progress is the completion ratio of one partition.
type Progress struct {
	Partition task.Partition `json:"partition"`
	Completed int            `json:"completed"`
	Total     int            `json:"total"`
}

// Percent returns the completion percentage, 0 when the partition is empty.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total) * 100 //nolint:mnd // percentage
}

// ProgressOf computes per-partition progress over the full task set, in
// partition display order.
func ProgressOf(tasks []task.Task) []Progress {
	out := make([]Progress, len(task.Partitions))
	for i, p := range task.Partitions {
		out[i].Partition = p
	}
	for _, t := range tasks {
		for i := range out {
			if out[i].Partition != t.Database {
				continue
			}
			out[i].Total++
			if t.IsCompleted() {
				out[i].Completed++
			}
		}
	}
	return out
}
