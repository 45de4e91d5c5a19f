// Copyright 2024 The Buddyalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package buddy

import "unsafe"

// Tracker wraps an Allocator with a side table of currently-live
// allocations, trading a map lookup per call for the ability to detect
// double-free and alien-free -- the optional wrapper the core
// allocator's design notes explicitly leave room for. The core
// Allocator itself stays trust-the-caller; wrap it in a Tracker only
// where the extra bookkeeping is worth the cost.
type Tracker struct {
	a    *Allocator
	live map[uintptr]struct{}
}

// NewTracker wraps an existing Allocator. The Allocator must not be
// used directly (bypassing the Tracker) afterward, or the side table
// will fall out of sync.
func NewTracker(a *Allocator) *Tracker {
	return &Tracker{a: a, live: make(map[uintptr]struct{})}
}

// Allocate behaves like Allocator.Allocate, additionally recording the
// returned pointer as live.
func (t *Tracker) Allocate(n int) (unsafe.Pointer, error) {
	p, err := t.a.Allocate(n)
	if err != nil {
		return nil, err
	}
	t.live[uintptr(p)] = struct{}{}
	return p, nil
}

// Release behaves like Allocator.Release, except it first checks that p
// is currently recorded as live. Releasing nil is still a no-op.
// Releasing a pointer that was never returned by Allocate, or was
// already released, returns ErrDoubleFreeOrAlienFree instead of
// corrupting allocator state.
func (t *Tracker) Release(p unsafe.Pointer) error {
	if p == nil {
		return nil
	}
	addr := uintptr(p)
	if _, ok := t.live[addr]; !ok {
		return ErrDoubleFreeOrAlienFree
	}
	delete(t.live, addr)
	t.a.Release(p)
	return nil
}

// Len returns the number of allocations the Tracker currently believes
// are live.
func (t *Tracker) Len() int { return len(t.live) }

// Allocator returns the wrapped Allocator, for access to observables
// like Geometry/StatusOf that Tracker doesn't itself expose.
func (t *Tracker) Allocator() *Allocator { return t.a }
