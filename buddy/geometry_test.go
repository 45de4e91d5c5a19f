// Copyright 2024 The Buddyalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package buddy

import "testing"

func TestNewGeometry(t *testing.T) {
	g := newGeometry(16, 256)

	if g.MaxLevel != 4 {
		t.Fatalf("MaxLevel: got %d, want 4", g.MaxLevel)
	}

	wantSize := []uint64{256, 128, 64, 32, 16}
	wantStart := []uint64{0, 1, 3, 7, 15}

	if len(g.LevelSize) != len(wantSize) {
		t.Fatalf("LevelSize length: got %d, want %d", len(g.LevelSize), len(wantSize))
	}
	for i, want := range wantSize {
		if g.LevelSize[i] != want {
			t.Errorf("LevelSize[%d]: got %d, want %d", i, g.LevelSize[i], want)
		}
	}
	for i, want := range wantStart {
		if g.LevelStart[i] != want {
			t.Errorf("LevelStart[%d]: got %d, want %d", i, g.LevelStart[i], want)
		}
	}
	if g.numCells() != 31 {
		t.Errorf("numCells: got %d, want 31", g.numCells())
	}
}

func TestTreeIndexArithmetic(t *testing.T) {
	var tests = []struct {
		i        uint64
		parent   uint64
		left     uint64
		right    uint64
		buddyIdx uint64
	}{
		{0, 0, 1, 2, 0}, // root has no meaningful buddy; not exercised at index 0
		{1, 0, 3, 4, 2},
		{2, 0, 5, 6, 1},
		{7, 3, 15, 16, 8},
		{8, 3, 17, 18, 7},
	}

	for _, test := range tests {
		if test.i != 0 {
			if got := parentIndex(test.i); got != test.parent {
				t.Errorf("parentIndex(%d): got %d, want %d", test.i, got, test.parent)
			}
		}
		if got := leftChild(test.i); got != test.left {
			t.Errorf("leftChild(%d): got %d, want %d", test.i, got, test.left)
		}
		if got := rightChild(test.i); got != test.right {
			t.Errorf("rightChild(%d): got %d, want %d", test.i, got, test.right)
		}
		if test.i != 0 {
			if got := buddyIndex(test.i); got != test.buddyIdx {
				t.Errorf("buddyIndex(%d): got %d, want %d", test.i, got, test.buddyIdx)
			}
		}
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	var tests = []struct {
		in   uint64
		want uint64
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{200, 256},
		{256, 256},
		{257, 512},
	}

	for _, test := range tests {
		if got := nextPowerOfTwo(test.in); got != test.want {
			t.Errorf("nextPowerOfTwo(%d): got %d, want %d", test.in, got, test.want)
		}
	}
}
