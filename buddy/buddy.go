// Copyright 2024 The Buddyalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

// Package buddy implements a binary buddy allocator over a single
// contiguous region of raw bytes. It hands out power-of-two sub-regions
// on request and coalesces them back eagerly on release.
package buddy

import (
	"fmt"
	"unsafe"

	"github.com/intuitivelabs/slog"
)

// Options encodes configuration flags for an Allocator.
type Options uint32

const (
	// OptDebug enables verbose logging of allocate/release paths.
	OptDebug Options = 1 << iota
	// OptChecks enables free-block canary writes/verification, best
	// effort detection of a caller overwriting a neighboring block.
	OptChecks

	// DefaultOptions is used by New when no WithOptions call is given.
	DefaultOptions = OptChecks
)

// Debug reports whether OptDebug is set.
func (o Options) Debug() bool { return o&OptDebug != 0 }

// Checks reports whether OptChecks is set.
func (o Options) Checks() bool { return o&OptChecks != 0 }

// Config holds construction-time parameters for an Allocator.
type Config struct {
	MinBlockSize uint64
	MaxLevelsCap int
	Options      Options
	Region       RegionProvider
}

// Option mutates a Config during New.
type Option func(*Config)

// WithMinBlockSize overrides the minimum block size (must end up a
// power of two no smaller than two pointers).
func WithMinBlockSize(n uint64) Option { return func(c *Config) { c.MinBlockSize = n } }

// WithOptions overrides the Options bitmask.
func WithOptions(o Options) Option { return func(c *Config) { c.Options = o } }

// WithMaxLevelsCap overrides the maximum number of tree levels allowed.
func WithMaxLevelsCap(n int) Option { return func(c *Config) { c.MaxLevelsCap = n } }

// WithRegionProvider overrides how the backing region is acquired.
func WithRegionProvider(p RegionProvider) Option { return func(c *Config) { c.Region = p } }

// Allocator manages a single fixed-size region and hands out buddy
// blocks from it. It is neither copyable nor safe for concurrent use;
// the caller serializes its own access.
type Allocator struct {
	geom     Geometry
	opts     Options
	provider RegionProvider

	region []byte
	base   unsafe.Pointer

	status   []BlockStatus
	freeHead []unsafe.Pointer
}

// New constructs an Allocator over a freshly acquired region whose size
// is requestedSize rounded up to a power of two and clamped to the
// configured [MinBlockSize, MinBlockSize*2^(MaxLevelsCap-1)] range. A
// request above that range gets a region of the upper bound, smaller
// than requestedSize.
func New(requestedSize int, opts ...Option) (*Allocator, error) {
	cfg := Config{
		MinBlockSize: DefaultMinBlockSize,
		MaxLevelsCap: MaxLevelsCap,
		Options:      DefaultOptions,
		Region:       defaultRegionProvider(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if requestedSize <= 0 {
		return nil, fmt.Errorf("buddy: requested region size must be positive, got %d", requestedSize)
	}
	if cfg.MinBlockSize < uint64(freeHeaderSize) || !isPowerOfTwo(cfg.MinBlockSize) {
		return nil, fmt.Errorf("buddy: MinBlockSize must be a power of two >= %d, got %d",
			freeHeaderSize, cfg.MinBlockSize)
	}
	if cfg.MaxLevelsCap <= 0 || cfg.MaxLevelsCap > MaxLevelsCap {
		return nil, fmt.Errorf("buddy: MaxLevelsCap must be in (0, %d], got %d", MaxLevelsCap, cfg.MaxLevelsCap)
	}

	maxSize := cfg.MinBlockSize << uint(cfg.MaxLevelsCap-1)
	size := nextPowerOfTwo(uint64(requestedSize))
	if size < cfg.MinBlockSize {
		size = cfg.MinBlockSize
	}
	if size > maxSize {
		size = maxSize
	}

	region, err := cfg.Region.Acquire(int(size))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConstructionOOM, err)
	}
	if len(region) != int(size) {
		return nil, fmt.Errorf("%w: region provider returned %d bytes, wanted %d",
			ErrConstructionOOM, len(region), size)
	}

	geom := newGeometry(cfg.MinBlockSize, size)

	a := &Allocator{
		geom:     geom,
		opts:     cfg.Options,
		provider: cfg.Region,
		region:   region,
		base:     unsafe.Pointer(&region[0]),
		status:   make([]BlockStatus, geom.numCells()),
		freeHead: make([]unsafe.Pointer, geom.MaxLevel+1),
	}

	// status[0] is Free by the zero value; push the whole region as the
	// single root block onto level 0's free list.
	a.pushFront(a.base, 0)

	if a.opts.Debug() {
		a.DumpState()
	}

	return a, nil
}

func isPowerOfTwo(n uint64) bool { return n != 0 && n&(n-1) == 0 }

// requiredLevel returns the deepest level whose block size is still
// >= n, the smallest block that fits a request of n bytes.
func (a *Allocator) requiredLevel(n uint64) int {
	level := a.geom.MaxLevel
	for level > 0 && a.geom.LevelSize[level] < n {
		level--
	}
	return level
}

// levelOf recovers the tree level of a pointer previously returned by
// Allocate, without trusting any header embedded in the caller's own
// block: the highest parent that is Split identifies the finest level
// at which ptr is still a valid block boundary.
func (a *Allocator) levelOf(ptr unsafe.Pointer) int {
	for k := a.geom.MaxLevel; k >= 1; k-- {
		i := a.geom.treeIndex(a.base, ptr, k-1)
		if a.status[i] == Split {
			return k
		}
	}
	return 0
}

// Allocate returns a pointer to a block of at least n bytes within the
// region, or an error if the request cannot be satisfied.
func (a *Allocator) Allocate(n int) (unsafe.Pointer, error) {
	if n <= 0 {
		return nil, ErrZeroRequest
	}
	size := uint64(n)
	if size > a.geom.LevelSize[0] {
		return nil, ErrOversize
	}

	required := a.requiredLevel(size)

	level := required
	for a.freeHead[level] == nil {
		if level == 0 {
			return nil, ErrExhausted
		}
		level--
	}

	block := a.popFront(level)
	index := a.geom.treeIndex(a.base, block, level)

	for level < required {
		a.status[index] = Split

		rightIdx := rightChild(index)
		a.status[rightIdx] = Free
		rightAddr := a.geom.addressOf(a.base, rightIdx, level+1)
		a.pushFront(rightAddr, level+1)

		index = leftChild(index)
		level++
	}

	a.status[index] = Allocated

	if a.opts.Debug() {
		Log.LLog(slog.LDBG, 1, pDBG, "allocate(%d) -> level=%d index=%d addr=%p\n",
			n, level, index, block)
	}

	return block, nil
}

// Release returns a block previously obtained from Allocate to the
// allocator, coalescing eagerly with any free buddy up the tree.
// Release of nil is a no-op. Release of a pointer never returned by
// Allocate is undefined behavior, as the allocator has no way to
// distinguish it from a valid one (see Tracker for an optional guard).
func (a *Allocator) Release(p unsafe.Pointer) {
	if p == nil {
		return
	}

	level := a.levelOf(p)
	index := a.geom.treeIndex(a.base, p, level)

	if level == 0 {
		a.status[0] = Free
		a.pushFront(p, 0)
		return
	}

	a.status[index] = Free
	buddy := buddyIndex(index)

	for a.status[buddy] == Free {
		buddyAddr := a.geom.addressOf(a.base, buddy, level)
		a.unlink(buddyAddr, level)

		index = parentIndex(index)
		a.status[index] = Free
		level--

		if level == 0 {
			break
		}
		buddy = buddyIndex(index)
	}

	addr := a.geom.addressOf(a.base, index, level)
	a.pushFront(addr, level)

	if a.opts.Debug() {
		Log.LLog(slog.LDBG, 1, pDBG, "release(%p) -> level=%d index=%d\n", p, level, index)
	}
}

// Owns reports whether p falls within the region this Allocator
// manages. Behavior is undefined if p was already Released.
func (a *Allocator) Owns(p unsafe.Pointer) bool {
	start := uintptr(a.base)
	end := start + uintptr(a.geom.LevelSize[0])
	got := uintptr(p)
	return got >= start && got < end
}

// Close returns the backing region to its RegionProvider. The
// Allocator must not be used afterward.
func (a *Allocator) Close() error {
	if a.region == nil {
		return nil
	}
	err := a.provider.Release(a.region)
	a.region = nil
	a.base = nil
	return err
}

// StatusOf is a test/diagnostic observable: the status of the block
// tree cell at the given flat index.
func (a *Allocator) StatusOf(index uint64) BlockStatus { return a.status[index] }

// Geometry is a test/diagnostic observable: the level table this
// Allocator was constructed with.
func (a *Allocator) Geometry() Geometry { return a.geom }

// FreeListSnapshot is a test/diagnostic observable: the addresses
// currently linked into the free list for the given level, head first.
func (a *Allocator) FreeListSnapshot(level int) []uintptr {
	var out []uintptr
	for p := a.freeHead[level]; p != nil; {
		out = append(out, uintptr(p))
		p = headerAt(p).next
	}
	return out
}
