// Copyright 2024 The Buddyalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package buddy

import "errors"

var (
	// ErrZeroRequest is returned by Allocate(0).
	ErrZeroRequest = errors.New("buddy: requested zero bytes")
	// ErrOversize is returned when a request exceeds the region size.
	ErrOversize = errors.New("buddy: requested size exceeds region")
	// ErrExhausted is returned when no free block large enough exists,
	// even after accounting for splitting larger free blocks.
	ErrExhausted = errors.New("buddy: no free block of sufficient size")
	// ErrConstructionOOM is returned by New when the RegionProvider
	// could not supply the backing memory.
	ErrConstructionOOM = errors.New("buddy: region provider could not supply memory")
	// ErrDoubleFreeOrAlienFree is returned by Tracker.Release for a
	// pointer it did not hand out or already reclaimed.
	ErrDoubleFreeOrAlienFree = errors.New("buddy: release of untracked pointer")
)
