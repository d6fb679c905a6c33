package session

import (
	"context"
	"sync"
	"time"

	"shuryan/models"
)

// Debouncer runs a function once after a quiet period. Every Trigger
// cancels the pending run and restarts the wait, so a burst of calls
// fires exactly once.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer builds a Debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the quiet period, replacing any pending
// run.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Cancel drops any pending run. Call on teardown so a save never fires
// into a torn-down context.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Autosaver drives the documentation tab's background save: each edit
// updates the draft and restarts the debounce; after the quiet period
// the draft is upserted silently so the UI never flickers a loading
// state.
type Autosaver struct {
	store *Store
	deb   *Debouncer

	mu    sync.Mutex
	draft models.Documentation
	dirty bool
}

// NewAutosaver builds an Autosaver over the store. delay is the quiet
// period after the last edit.
func NewAutosaver(store *Store, delay time.Duration) *Autosaver {
	return &Autosaver{
		store: store,
		deb:   NewDebouncer(delay),
	}
}

// Update records an edit to the draft and restarts the autosave wait.
func (a *Autosaver) Update(doc models.Documentation) {
	a.mu.Lock()
	a.draft = doc
	a.dirty = true
	a.mu.Unlock()

	a.deb.Trigger(a.flush)
}

// Stop cancels any pending save.
func (a *Autosaver) Stop() {
	a.deb.Cancel()
}

func (a *Autosaver) flush() {
	a.mu.Lock()
	if !a.dirty {
		a.mu.Unlock()
		return
	}
	draft := a.draft
	a.dirty = false
	a.mu.Unlock()

	// Silent mode: errors stay in the store's error field, the tab
	// decides how to surface them.
	a.store.AddDocumentation(context.Background(), draft, true)
}
