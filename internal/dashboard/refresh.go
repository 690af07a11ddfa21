// Package dashboard runs the fetch-and-normalize cycle that feeds the view
// state, and reports its outcome.
package dashboard

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/abatilo/taskboard/internal/logger"
	"github.com/abatilo/taskboard/internal/normalize"
	"github.com/abatilo/taskboard/internal/record"
	"github.com/abatilo/taskboard/internal/source"
	"github.com/abatilo/taskboard/internal/task"
	"github.com/abatilo/taskboard/internal/view"
)

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a transient, user-visible message.
type Notification struct {
	Level   Level
	Message string
	At      time.Time
}

// Notifier receives notifications.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

// Notify calls f.
func (f NotifierFunc) Notify(n Notification) { f(n) }

// Result is the outcome of one refresh cycle.
type Result struct {
	Seq   uint64
	Tasks []task.Task
	Err   error
}

// Refresher fetches and normalizes the full task set. Each cycle carries a
// sequence number so that late results of older cycles can be discarded.
type Refresher struct {
	fetcher    source.Fetcher
	normalizer *normalize.Normalizer
	partitions normalize.PartitionMap
	notifier   Notifier
	log        logger.Logger
	seq        atomic.Uint64
	now        func() time.Time
}

// NewRefresher creates a Refresher. A nil notifier discards notifications.
func NewRefresher(
	fetcher source.Fetcher,
	normalizer *normalize.Normalizer,
	partitions normalize.PartitionMap,
	notifier Notifier,
	log logger.Logger,
) *Refresher {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	return &Refresher{
		fetcher:    fetcher,
		normalizer: normalizer,
		partitions: partitions,
		notifier:   notifier,
		log:        log,
		now:        time.Now,
	}
}

// Begin reserves the sequence number of a new cycle.
func (r *Refresher) Begin() uint64 {
	return r.seq.Add(1)
}

// Load runs the cycle numbered seq to completion. It emits exactly one
// notification: success with the task count, or failure.
func (r *Refresher) Load(ctx context.Context, seq uint64) Result {
	batches, err := r.fetcher.Fetch(ctx)
	if err != nil {
		r.log.Error("failed to load tasks", "seq", seq, "err", err)
		r.notify(LevelError, "Failed to load tasks")
		return Result{Seq: seq, Err: err}
	}

	tasks := r.normalizer.NormalizeAll(batches, r.partitions, func(key string, rec record.RawRecord) {
		r.log.Warn("skipping record", "database", key, "error", rec.Error)
	})
	r.log.Debug("loaded tasks", "seq", seq, "count", len(tasks))
	r.notify(LevelSuccess, fmt.Sprintf("Loaded %d tasks successfully", len(tasks)))
	return Result{Seq: seq, Tasks: tasks}
}

// Refresh runs a new cycle.
func (r *Refresher) Refresh(ctx context.Context) Result {
	return r.Load(ctx, r.Begin())
}

// Apply folds a result into s. Failed and stale results leave s unchanged.
func (r *Refresher) Apply(s view.State, res Result) (view.State, bool) {
	if res.Err != nil {
		return s, false
	}
	next, ok := s.WithTasks(res.Seq, res.Tasks)
	if !ok {
		r.log.Debug("discarding stale result", "seq", res.Seq, "applied", s.Applied())
	}
	return next, ok
}

func (r *Refresher) notify(level Level, msg string) {
	r.notifier.Notify(Notification{Level: level, Message: msg, At: r.now()})
}
