package library

import (
	"log/slog"
	"sync"
	"time"
)

// Watcher re-scans a library on a fixed interval so assets dropped into the
// directory outside the app show up without a restart.
type Watcher struct {
	lib      *Library
	interval time.Duration
	onChange func(Kind)

	mu      sync.Mutex
	lastSig string
	stop    chan struct{}
	done    chan struct{}
}

// NewWatcher creates a watcher for lib. onChange fires from the watcher
// goroutine whenever a poll observes different directory contents.
func NewWatcher(lib *Library, interval time.Duration, onChange func(Kind)) *Watcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Watcher{
		lib:      lib,
		interval: interval,
		onChange: onChange,
		lastSig:  lib.signature(),
	}
}

// Start launches the polling loop. Calling Start on a running watcher is a
// no-op.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stop != nil {
		return
	}
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	go w.run(w.stop, w.done)
	slog.Debug("Library: Watcher started", "kind", w.lib.Kind(), "interval", w.interval)
}

// Stop terminates the polling loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	stop, done := w.stop, w.done
	w.stop, w.done = nil, nil
	w.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (w *Watcher) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			w.Poll()
		}
	}
}

// Poll performs one re-scan and reports whether the contents changed since
// the previous poll. The change callback runs before Poll returns.
func (w *Watcher) Poll() bool {
	if err := w.lib.Scan(); err != nil {
		slog.Warn("Library: Watcher scan failed", "kind", w.lib.Kind(), "error", err)
		return false
	}

	sig := w.lib.signature()
	w.mu.Lock()
	changed := sig != w.lastSig
	w.lastSig = sig
	w.mu.Unlock()

	if changed {
		slog.Info("Library: Contents changed", "kind", w.lib.Kind(), "items", len(w.lib.Items()))
		if w.onChange != nil {
			w.onChange(w.lib.Kind())
		}
	}
	return changed
}
