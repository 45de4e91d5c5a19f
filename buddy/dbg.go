// Copyright 2024 The Buddyalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package buddy

import "github.com/intuitivelabs/slog"

// DumpState writes the allocator's current geometry, block-status tree
// and the number of blocks on each non-empty free list to Log at debug
// level. It is a no-op unless
// debug logging is enabled, so it costs nothing on the hot path.
func (a *Allocator) DumpState() {
	const lev = slog.LDBG
	const prefix = "buddy_status "

	if !Log.L(lev) {
		return
	}
	Log.LLog(lev, 0, prefix, "(%p):\n", a)
	if a == nil {
		return
	}
	Log.LLog(lev, 0, prefix, "region size=%d min block=%d max level=%d\n",
		a.geom.LevelSize[0], a.geom.MinBlockSize, a.geom.MaxLevel)

	a.dumpTree()
	a.dumpFreeLists()
}

func (a *Allocator) dumpTree() {
	const lev = slog.LDBG
	const prefix = "buddy_tree "

	index := uint64(0)
	nextLevelIndex := uint64(0)
	for level := 0; level <= a.geom.MaxLevel; level++ {
		nextLevelIndex = (nextLevelIndex+1)*2 - 1
		for index < nextLevelIndex {
			if index == 0 || a.status[parentIndex(index)] == Split {
				Log.LLog(lev, 0, prefix, "level=%d index=%d status=%s\n",
					level, index, a.status[index])
			}
			index++
		}
	}
}

func (a *Allocator) dumpFreeLists() {
	const lev = slog.LDBG
	const prefix = "buddy_freelists "

	for level := 0; level <= a.geom.MaxLevel; level++ {
		count := 0
		for p := a.freeHead[level]; p != nil; p = headerAt(p).next {
			count++
		}
		if count > 0 {
			Log.LLog(lev, 0, prefix, "level=%d blocksize=%d count=%d\n",
				level, a.geom.LevelSize[level], count)
		}
	}
}
