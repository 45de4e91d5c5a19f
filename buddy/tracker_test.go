// Copyright 2024 The Buddyalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package buddy

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	a, err := New(200, WithOptions(0))
	require.NoError(t, err)
	return NewTracker(a)
}

func TestTrackerAllocateReleaseRoundTrip(t *testing.T) {
	tr := newTestTracker(t)

	p, err := tr.Allocate(40)
	require.NoError(t, err)
	require.Equal(t, 1, tr.Len())

	require.NoError(t, tr.Release(p))
	require.Equal(t, 0, tr.Len())
}

func TestTrackerDetectsDoubleFree(t *testing.T) {
	tr := newTestTracker(t)

	p, err := tr.Allocate(40)
	require.NoError(t, err)
	require.NoError(t, tr.Release(p))

	err = tr.Release(p)
	require.ErrorIs(t, err, ErrDoubleFreeOrAlienFree)
}

func TestTrackerDetectsAlienFree(t *testing.T) {
	tr := newTestTracker(t)

	var notOurs int
	err := tr.Release(unsafe.Pointer(&notOurs))
	require.ErrorIs(t, err, ErrDoubleFreeOrAlienFree)
}

func TestTrackerReleaseNilIsNoop(t *testing.T) {
	tr := newTestTracker(t)
	require.NoError(t, tr.Release(nil))
	require.Equal(t, 0, tr.Len())
}
