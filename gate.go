// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lazyglyph

import (
	"context"
	"sync"
)

// gate allows one background run at a time and lets callers cancel it and
// wait until it has returned.
type gate struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// start runs fn in a new goroutine with a context derived from parent.
// Any previous run must have been stopped with cancelAndWait first.
func (g *gate) start(parent context.Context, fn func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	g.mu.Lock()
	g.cancel = cancel
	g.done = done
	g.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()
		fn(ctx)
	}()
}

// cancelAndWait cancels the current run, if any, and blocks until it has
// returned. It must not be called while holding a lock the run needs.
func (g *gate) cancelAndWait() {
	g.mu.Lock()
	cancel, done := g.cancel, g.done
	g.cancel, g.done = nil, nil
	g.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// wait blocks until the current run returns or ctx is done.
func (g *gate) wait(ctx context.Context) error {
	g.mu.Lock()
	done := g.done
	g.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// running reports whether a run is in progress.
func (g *gate) running() bool {
	g.mu.Lock()
	done := g.done
	g.mu.Unlock()

	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}
