package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"travel-tracker/internal/domain"
)

// SnapshotSource is anything that can report the tracker state.
type SnapshotSource interface {
	Snapshot() Snapshot
}

// TickSource creates the tick channel and its stop function.
type TickSource func(interval time.Duration) (<-chan time.Time, func())

func realTicks(interval time.Duration) (<-chan time.Time, func()) {
	ticker := time.NewTicker(interval)
	return ticker.C, ticker.Stop
}

// ElapsedTimer reports the running trip's elapsed time once per interval.
// It only reads the tracker.
type ElapsedTimer struct {
	source   SnapshotSource
	interval time.Duration
	onTick   func(elapsed string)
	ticks    TickSource

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

// NewElapsedTimer creates a stopped timer. A non-positive interval means one second.
func NewElapsedTimer(source SnapshotSource, interval time.Duration, onTick func(elapsed string)) *ElapsedTimer {
	if interval <= 0 {
		interval = time.Second
	}
	return &ElapsedTimer{
		source:   source,
		interval: interval,
		onTick:   onTick,
		ticks:    realTicks,
	}
}

// WithTickSource replaces the ticker, mainly for tests.
func (e *ElapsedTimer) WithTickSource(ts TickSource) *ElapsedTimer {
	e.ticks = ts
	return e
}

// Start launches the ticking goroutine. Calling Start on a running timer does nothing.
func (e *ElapsedTimer) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return
	}
	e.running = true
	e.stop = make(chan struct{})
	e.done = make(chan struct{})

	ticks, stopTicks := e.ticks(e.interval)
	go e.run(ctx, ticks, stopTicks, e.stop, e.done)
}

// Stop halts the timer and waits for the goroutine to exit.
func (e *ElapsedTimer) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	close(e.stop)
	done := e.done
	e.mu.Unlock()

	<-done
}

func (e *ElapsedTimer) run(ctx context.Context, ticks <-chan time.Time, stopTicks func(), stop, done chan struct{}) {
	defer close(done)
	defer stopTicks()
	defer e.exited(done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticks:
			snap := e.source.Snapshot()
			if snap.State == domain.InProgress && e.onTick != nil {
				e.onTick(FormatElapsed(snap.Elapsed))
			}
		}
	}
}

// exited marks the timer stopped when the run owning done ends on its own,
// so a cancelled timer can be started again.
func (e *ElapsedTimer) exited(done chan struct{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done == done {
		e.running = false
	}
}

// FormatElapsed renders d as HH:MM:SS. Hours are not wrapped at 24.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
