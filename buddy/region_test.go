// Copyright 2024 The Buddyalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package buddy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSliceRegionProvider(t *testing.T) {
	p := SliceRegionProvider()

	region, err := p.Acquire(128)
	require.NoError(t, err)
	require.Len(t, region, 128)

	require.NoError(t, p.Release(region))
}

func TestNewUsesDefaultRegionProvider(t *testing.T) {
	a, err := New(64)
	require.NoError(t, err)
	defer a.Close()

	require.Equal(t, uint64(64), a.geom.LevelSize[0])
}

func TestNewWithExplicitRegionProvider(t *testing.T) {
	a, err := New(64, WithRegionProvider(SliceRegionProvider()))
	require.NoError(t, err)
	defer a.Close()

	p, err := a.Allocate(10)
	require.NoError(t, err)
	require.True(t, a.Owns(p))
}
