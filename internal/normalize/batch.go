package normalize

import (
	"github.com/abatilo/taskboard/internal/record"
	"github.com/abatilo/taskboard/internal/task"
)

// PartitionMap maps data source database keys to partitions.
type PartitionMap map[string]task.Partition

// DefaultPartitions returns the lookup used when none is configured.
func DefaultPartitions() PartitionMap {
	return PartitionMap{
		"db1": task.PartitionHigh,
		"db2": task.PartitionMedium,
		"db3": task.PartitionLow,
	}
}

// Resolve returns the partition for a database key. Unknown keys, and keys
// mapped to an invalid partition, resolve to low.
func (m PartitionMap) Resolve(key string) task.Partition {
	if p, ok := m[key]; ok && task.IsValidPartition(p) {
		return p
	}
	return task.PartitionLow
}

// SkipFunc is called for every record left out of NormalizeAll.
type SkipFunc func(key string, rec record.RawRecord)

// NormalizeAll normalizes every batch in order. Records carrying a producer
// error marker are skipped and reported through skip, which may be nil.
func (n *Normalizer) NormalizeAll(batches []record.Batch, partitions PartitionMap, skip SkipFunc) []task.Task {
	total := 0
	for _, b := range batches {
		total += len(b.Records)
	}

	tasks := make([]task.Task, 0, total)
	for _, b := range batches {
		partition := partitions.Resolve(b.Key)
		for _, rec := range b.Records {
			if rec.Error != "" {
				if skip != nil {
					skip(b.Key, rec)
				}
				continue
			}
			tasks = append(tasks, n.Normalize(rec, partition))
		}
	}
	return tasks
}
