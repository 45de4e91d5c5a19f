// Copyright 2024 The Buddyalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package buddy

import "unsafe"

// freeListHeader is the intrusive {prev, next} pair written into the
// first bytes of a free block's own payload. prev == nil iff the block
// is the head of its level's list.
type freeListHeader struct {
	prev unsafe.Pointer
	next unsafe.Pointer
}

// freeHeaderSize is the number of payload bytes a free block header
// occupies; MinBlockSize must be at least this large.
const freeHeaderSize = unsafe.Sizeof(freeListHeader{})

// freeCanaryPattern is written just past the header when checks are on
// and the configured block size leaves room for it. It exists to catch
// a caller writing past the end of a neighboring allocated block into a
// free block's list pointers -- a best-effort defense, not a security
// guarantee, per the design notes on intrusive headers.
const freeCanaryPattern uint64 = 0xf00df00dcafebabe

func headerAt(p unsafe.Pointer) *freeListHeader {
	return (*freeListHeader)(p)
}

// canaryOffset returns the byte offset of the canary word within a free
// block, or 0 if canaries are disabled (checks off, or the configured
// block size has no room past the header).
func (a *Allocator) canaryOffset() uintptr {
	if !a.opts.Checks() {
		return 0
	}
	if a.geom.MinBlockSize < uint64(freeHeaderSize)+8 {
		return 0
	}
	return freeHeaderSize
}

func (a *Allocator) writeCanary(block unsafe.Pointer) {
	off := a.canaryOffset()
	if off == 0 {
		return
	}
	*(*uint64)(unsafe.Pointer(uintptr(block) + off)) = freeCanaryPattern
}

func (a *Allocator) checkCanary(block unsafe.Pointer) {
	off := a.canaryOffset()
	if off == 0 {
		return
	}
	got := *(*uint64)(unsafe.Pointer(uintptr(block) + off))
	if got != freeCanaryPattern {
		a.DumpState()
		PANIC("free block %p canary corrupted (got %x)\n", block, got)
	}
}

// pushFront links block onto the front of the free list for level.
func (a *Allocator) pushFront(block unsafe.Pointer, level int) {
	h := headerAt(block)
	h.prev = nil
	h.next = a.freeHead[level]
	if a.freeHead[level] != nil {
		headerAt(a.freeHead[level]).prev = block
	}
	a.freeHead[level] = block
	a.writeCanary(block)
}

// popFront removes and returns the head of the free list for level, or
// nil if the list is empty.
func (a *Allocator) popFront(level int) unsafe.Pointer {
	block := a.freeHead[level]
	if block == nil {
		return nil
	}
	a.checkCanary(block)
	h := headerAt(block)
	a.freeHead[level] = h.next
	if h.next != nil {
		headerAt(h.next).prev = nil
	}
	h.prev, h.next = nil, nil
	return block
}

// unlink removes block from the free list for level. It compares block
// against the list head directly rather than trusting block's own prev
// pointer, so a stale prev left in the head block is never followed,
// and a non-head block whose prev is nil cannot overwrite the list
// head. A non-nil prev in a non-head block is trusted and followed.
func (a *Allocator) unlink(block unsafe.Pointer, level int) {
	a.checkCanary(block)
	h := headerAt(block)
	if block == a.freeHead[level] {
		a.freeHead[level] = h.next
		if h.next != nil {
			headerAt(h.next).prev = nil
		}
	} else {
		if h.prev != nil {
			headerAt(h.prev).next = h.next
		}
		if h.next != nil {
			headerAt(h.next).prev = h.prev
		}
	}
	h.prev, h.next = nil, nil
}
