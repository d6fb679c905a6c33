package session

import (
	"sync"
	"time"
)

// TickSource produces a tick channel and a release function. The
// default wraps time.NewTicker with a one second period; tests inject
// a manual channel for deterministic clock control.
type TickSource func() (<-chan time.Time, func())

func defaultTickSource() (<-chan time.Time, func()) {
	t := time.NewTicker(time.Second)
	return t.C, t.Stop
}

// Timer is a cancellable repeating countdown capability. At most one
// run is active per Timer; Start always cancels the previous run
// first, so repeated starts never accumulate tickers.
type Timer struct {
	mu     sync.Mutex
	source TickSource
	stopCh chan struct{}
}

// NewTimer builds a Timer ticking once per wall-clock second.
func NewTimer() *Timer {
	return &Timer{source: defaultTickSource}
}

// NewTimerWithSource builds a Timer fed by a custom tick source.
func NewTimerWithSource(source TickSource) *Timer {
	if source == nil {
		source = defaultTickSource
	}
	return &Timer{source: source}
}

// Start begins ticking. onTick runs once per tick and returns false to
// stop the run (the countdown reached zero).
func (t *Timer) Start(onTick func() bool) {
	t.mu.Lock()
	t.cancelLocked()
	ticks, release := t.source()
	stopCh := make(chan struct{})
	t.stopCh = stopCh
	t.mu.Unlock()

	go func() {
		defer release()
		for {
			select {
			case <-stopCh:
				return
			case <-ticks:
				if !onTick() {
					t.finish(stopCh)
					return
				}
			}
		}
	}()
}

// Cancel stops the active run, if any.
func (t *Timer) Cancel() {
	t.mu.Lock()
	t.cancelLocked()
	t.mu.Unlock()
}

// Running reports whether a run is active.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopCh != nil
}

func (t *Timer) cancelLocked() {
	if t.stopCh != nil {
		close(t.stopCh)
		t.stopCh = nil
	}
}

// finish clears the run state when the countdown expired on its own.
// The channel comparison guards against a newer run having replaced
// this one in the meantime.
func (t *Timer) finish(stopCh chan struct{}) {
	t.mu.Lock()
	if t.stopCh == stopCh {
		t.stopCh = nil
	}
	t.mu.Unlock()
}
