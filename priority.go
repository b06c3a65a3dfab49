// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lazyglyph

import (
	"context"
	"sync/atomic"
)

// Lane identifies an execution context for resource-loader prioritization.
// The zero Lane is never marked.
type Lane uint64

type laneKey struct{}

// WithLane returns a copy of ctx that carries lane.
func WithLane(ctx context.Context, lane Lane) context.Context {
	return context.WithValue(ctx, laneKey{}, lane)
}

// LaneFrom returns the lane carried by ctx, if any.
func LaneFrom(ctx context.Context) (Lane, bool) {
	if ctx == nil {
		return 0, false
	}
	l, ok := ctx.Value(laneKey{}).(Lane)
	return l, ok
}

// PriorityMarker records which lane is doing latency-sensitive generation
// right now, so a resource loader can serve that lane's allocations
// immediately instead of batching them.
type PriorityMarker struct {
	current atomic.Uint64
	next    atomic.Uint64
}

// NewLane allocates a fresh lane.
func (p *PriorityMarker) NewLane() Lane {
	return Lane(p.next.Add(1))
}

// Mark makes lane the priority lane.
func (p *PriorityMarker) Mark(lane Lane) {
	p.current.Store(uint64(lane))
}

// Clear unmarks lane if it is still the priority lane.
func (p *PriorityMarker) Clear(lane Lane) {
	p.current.CompareAndSwap(uint64(lane), 0)
}

// Active reports whether ctx carries the lane currently marked as priority.
// It has the shape of the host's resource-loader query.
func (p *PriorityMarker) Active(ctx context.Context) bool {
	lane, ok := LaneFrom(ctx)
	if !ok || lane == 0 {
		return false
	}
	return p.current.Load() == uint64(lane)
}

// Current returns the marked lane, or zero if none is marked.
func (p *PriorityMarker) Current() Lane {
	return Lane(p.current.Load())
}
