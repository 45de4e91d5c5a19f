// Copyright 2024 The Buddyalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

//go:build !unix

package buddy

// defaultRegionProvider falls back to plain Go heap allocation on
// non-unix hosts, where an anonymous mmap isn't available the same way.
func defaultRegionProvider() RegionProvider { return SliceRegionProvider() }
