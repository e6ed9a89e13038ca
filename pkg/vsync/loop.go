package vsync

import (
	"context"
	"sync"

	"github.com/go-drift/scene/pkg/errors"
)

// Loop queues work for the owner goroutine. Post may be called from any
// goroutine; Drain and WaitForVsync belong to the owner.
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
	once  sync.Once
}

func (l *Loop) init() {
	l.once.Do(func() { l.wake = make(chan struct{}, 1) })
}

func (l *Loop) signal() {
	l.init()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Post schedules fn to run on the next Drain.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	l.signal()
}

// Pending returns the number of queued callbacks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Drain runs every queued callback in posting order and returns how many
// ran. Callbacks posted while draining wait for the next Drain. A panicking
// callback is reported to the error handler and the rest still run.
func (l *Loop) Drain() int {
	l.mu.Lock()
	callbacks := append([]func(){}, l.queue...)
	l.queue = nil
	l.mu.Unlock()
	for _, callback := range callbacks {
		run(callback)
	}
	return len(callbacks)
}

func run(callback func()) {
	defer errors.Recover("vsync.Loop.Drain")
	callback()
}

// WaitForVsync blocks until work is posted, Unblock is called or ctx is
// done. Work posted before the call returns immediately.
func (l *Loop) WaitForVsync(ctx context.Context) error {
	l.init()
	select {
	case <-l.wake:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unblock wakes a pending WaitForVsync without posting work. An Unblock with
// no waiter is remembered for the next wait.
func (l *Loop) Unblock() {
	l.signal()
}
