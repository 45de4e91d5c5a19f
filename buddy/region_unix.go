// Copyright 2024 The Buddyalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

//go:build unix

package buddy

import "golang.org/x/sys/unix"

// mmapRegionProvider acquires an anonymous, page-aligned mapping via
// mmap(2). Unlike the prototype this package is grounded on, it does
// not request PROT_EXEC: this is a data allocator, not a loader for
// executable code.
type mmapRegionProvider struct{}

func defaultRegionProvider() RegionProvider { return mmapRegionProvider{} }

func (mmapRegionProvider) Acquire(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func (mmapRegionProvider) Release(region []byte) error {
	return unix.Munmap(region)
}

// MmapRegionProvider returns the anonymous-mmap RegionProvider used by
// New by default on unix hosts.
func MmapRegionProvider() RegionProvider { return mmapRegionProvider{} }
