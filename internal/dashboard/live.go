package dashboard

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/abatilo/taskboard/internal/logger"
	"github.com/abatilo/taskboard/internal/view"
)

// Live holds the current State for surfaces that refresh from several
// goroutines (HTTP handlers, the scheduler). Updates are compare-and-swap so
// a stale result never replaces a fresher one.
type Live struct {
	refresher *Refresher
	state     atomic.Pointer[view.State]
	onApply   func(view.State)
	log       logger.Logger
}

// NewLive creates a Live starting from initial.
func NewLive(refresher *Refresher, initial view.State, log logger.Logger) *Live {
	l := &Live{refresher: refresher, log: log}
	l.state.Store(&initial)
	return l
}

// OnApply registers fn to run after each applied refresh result. Call it
// before the first Refresh or Schedule.
func (l *Live) OnApply(fn func(view.State)) {
	l.onApply = fn
}

// State returns the current state.
func (l *Live) State() view.State {
	return *l.state.Load()
}

// Refresh runs a refresh cycle and applies its result. The returned error is
// the fetch error, if any; the state is unchanged in that case.
func (l *Live) Refresh(ctx context.Context) error {
	res := l.refresher.Refresh(ctx)
	if res.Err != nil {
		return res.Err
	}
	for {
		cur := l.state.Load()
		next, ok := l.refresher.Apply(*cur, res)
		if !ok {
			return nil
		}
		if l.state.CompareAndSwap(cur, &next) {
			if l.onApply != nil {
				l.onApply(next)
			}
			return nil
		}
	}
}

// Update replaces the state with fn applied to it.
func (l *Live) Update(fn func(view.State) view.State) view.State {
	for {
		cur := l.state.Load()
		next := fn(*cur)
		if l.state.CompareAndSwap(cur, &next) {
			return next
		}
	}
}

// Schedule refreshes every interval until the returned stop function is
// called. stop waits for a running refresh to finish.
func (l *Live) Schedule(ctx context.Context, interval time.Duration) (stop func()) {
	cl := cronLogger{log: l.log}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	c.Schedule(cron.Every(interval), cron.FuncJob(func() {
		if err := l.Refresh(ctx); err != nil {
			l.log.Warn("scheduled refresh failed", "err", err)
		}
	}))
	c.Start()
	return func() {
		<-c.Stop().Done()
	}
}

// cronLogger adapts Logger to cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.log.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.log.Error(msg, append(keysAndValues, "err", err)...)
}
