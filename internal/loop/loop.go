// Package loop runs handlers one at a time on a single goroutine.
//
// Input sources, timers and API requests never touch launcher state
// directly; they post functions onto the loop, which executes them in
// order, each to completion.
package loop

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

const defaultQueueSize = 64

// ErrStopped is returned when work is submitted to a loop that has stopped.
var ErrStopped = errors.New("event loop stopped")

// Loop is a cooperative single-goroutine scheduler.
type Loop struct {
	queue    chan func()
	done     chan struct{}
	stopOnce sync.Once
	logger   *slog.Logger
}

// New creates a loop. Functions may be posted before Run is called.
func New(logger *slog.Logger) *Loop {
	return &Loop{
		queue:  make(chan func(), defaultQueueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Run executes posted functions until ctx is cancelled.
// A loop can only be run once.
func (l *Loop) Run(ctx context.Context) {
	defer l.stop()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			l.dispatch(fn)
		}
	}
}

// Done is closed once the loop has stopped.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Post queues fn without waiting for it to run. It returns false if the
// loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case <-l.done:
		return false
	case l.queue <- fn:
		return true
	}
}

// Do queues fn and waits until it has run, ctx is done or the loop stops.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}

	select {
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	case l.queue <- wrapped:
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}
}

// Every posts fn at the given interval until the returned stop function is
// called or the loop stops. Ticks are dropped rather than queued while the
// loop is busy with a previous one.
func (l *Loop) Every(interval time.Duration, fn func()) (stop func()) {
	quit := make(chan struct{})
	var once sync.Once
	pending := make(chan struct{}, 1)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-quit:
				return
			case <-l.done:
				return
			case <-ticker.C:
				select {
				case pending <- struct{}{}:
				default:
					l.logger.Debug("Dropping tick, previous one still queued", "interval", interval)
					continue
				}
				if !l.Post(func() {
					<-pending
					fn()
				}) {
					return
				}
			}
		}
	}()

	return func() {
		once.Do(func() { close(quit) })
	}
}

func (l *Loop) dispatch(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Recovered panic in event loop handler", "panic", r)
		}
	}()
	fn()
}

func (l *Loop) stop() {
	l.stopOnce.Do(func() {
		close(l.done)
		l.logger.Debug("Event loop stopped")
	})
}
