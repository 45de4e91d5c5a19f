// Copyright 2024 The Buddyalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package buddy

import "unsafe"

// DefaultMinBlockSize is the smallest block size the allocator will hand
// out, large enough to hold the two intrusive free-list pointers on a
// 64-bit host.
const DefaultMinBlockSize = 16

// MaxLevelsCap bounds how many levels a single Allocator may ever use.
// The reference prototype this package is grounded on capped this at 5;
// 32 is a reasonable production limit for a 64-bit address space.
const MaxLevelsCap = 32

// Geometry is the precomputed level table for a region of a given size:
// number of levels, block size per level, and starting tree index per
// level. It is read-only after construction.
type Geometry struct {
	MinBlockSize uint64
	MaxLevel     int
	LevelSize    []uint64
	LevelStart   []uint64
}

// newGeometry builds the level table for a region of regionSize bytes
// with blocks no smaller than minBlockSize. Both must already be powers
// of two with regionSize >= minBlockSize.
func newGeometry(minBlockSize, regionSize uint64) Geometry {
	var levelSize, levelStart []uint64
	maxLevel := 0
	index := uint64(0)
	size := regionSize
	for size >= minBlockSize {
		levelSize = append(levelSize, size)
		levelStart = append(levelStart, index)
		index = (index+1)*2 - 1
		maxLevel++
		size >>= 1
	}
	maxLevel--

	return Geometry{
		MinBlockSize: minBlockSize,
		MaxLevel:     maxLevel,
		LevelSize:    levelSize,
		LevelStart:   levelStart,
	}
}

// numCells returns the size of the flat block-status array needed to
// cover every level of this geometry.
func (g Geometry) numCells() uint64 {
	return (uint64(1) << uint(g.MaxLevel+1)) - 1
}

// ptrAtLevel converts a within-level block index to an address.
func ptrAtLevel(base unsafe.Pointer, indexWithinLevel, levelSize uint64) unsafe.Pointer {
	return unsafe.Pointer(uintptr(base) + uintptr(indexWithinLevel*levelSize))
}

// indexWithinLevel converts an address at the given level's block size
// back to a within-level block index.
func indexWithinLevel(base, ptr unsafe.Pointer, levelSize uint64) uint64 {
	return uint64(uintptr(ptr)-uintptr(base)) / levelSize
}

// treeIndex returns the flat tree index of the block at ptr, assuming
// ptr addresses a block boundary at level.
func (g Geometry) treeIndex(base, ptr unsafe.Pointer, level int) uint64 {
	return g.LevelStart[level] + indexWithinLevel(base, ptr, g.LevelSize[level])
}

// addressOf is the inverse of treeIndex: given a flat tree index known
// to live at level, it returns the block's address.
func (g Geometry) addressOf(base unsafe.Pointer, index uint64, level int) unsafe.Pointer {
	return ptrAtLevel(base, index-g.LevelStart[level], g.LevelSize[level])
}

func parentIndex(i uint64) uint64 { return (i - 1) / 2 }
func leftChild(i uint64) uint64   { return 2*i + 1 }
func rightChild(i uint64) uint64  { return 2*i + 2 }

// buddyIndex returns the sibling index produced by the same split as i.
func buddyIndex(i uint64) uint64 {
	if i%2 == 0 {
		return i - 1
	}
	return i + 1
}

// nextPowerOfTwo rounds n up to the next power of two (n itself if it
// already is one).
func nextPowerOfTwo(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}
