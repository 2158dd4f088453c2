// Package scratch arbitrates the temporary memory that cooperative
// primitives stage data through. Requests that fit the fast on-chip arena
// are served from it; larger requests spill to off-chip heap memory. The
// two domains are transparent to the algorithms using the buffer.
package scratch

import (
	"sync"

	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"

	"github.com/born-ml/bulk/internal/device"
	"github.com/born-ml/bulk/internal/group"
)

// arenaAlign is the bump-allocation granularity. Keeping offsets 16-byte
// aligned keeps every typed view over the arena aligned as well.
const arenaAlign = 16

// Stats counts allocator activity, in the spirit of pool hit/miss
// accounting: how often requests fit the arena and how often they spilled.
type Stats struct {
	Allocs uint64
	OnChip uint64
	Spills uint64
	Frees  uint64
}

// Allocator hands out scratch buffers for cooperative calls. The on-chip
// arena is a fixed-budget bump region; one buffer is live per group per
// call, released exactly once when the call finishes.
type Allocator struct {
	mu    sync.Mutex
	arena []byte
	used  int
	stats Stats
}

// Option configures an Allocator.
type Option func(*config)

type config struct {
	arenaBytes int
}

// WithArenaBytes overrides the on-chip arena budget. The default comes
// from the device descriptor.
func WithArenaBytes(n int) Option {
	return func(c *config) { c.arenaBytes = n }
}

// NewAllocator creates an allocator whose arena budget defaults to the
// device's on-chip scratch size.
func NewAllocator(opts ...Option) *Allocator {
	cfg := config{arenaBytes: device.Current().OnChipScratchBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.arenaBytes < 0 {
		cfg.arenaBytes = 0
	}
	return &Allocator{arena: make([]byte, cfg.arenaBytes)}
}

// Alloc returns a size-byte scratch buffer for the group. It is a
// collective call: every lane must pass through it, and the allocation
// itself happens exactly once, with all lanes receiving the same buffer.
func (a *Allocator) Alloc(g *group.Group, l group.Lane, size int) *Buffer {
	buf := g.Collective(l, func() any { return a.alloc(size) })
	return buf.(*Buffer)
}

func (a *Allocator) alloc(size int) *Buffer {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stats.Allocs++
	need := alignUp(size, arenaAlign)
	if a.used+need <= len(a.arena) {
		b := &Buffer{
			data:   a.arena[a.used : a.used+size : a.used+size],
			domain: OnChip,
			offset: a.used,
		}
		a.used += need
		a.stats.OnChip++
		return b
	}

	a.stats.Spills++
	klog.V(2).Infof("scratch: %s request spilled off-chip (arena %s of %s in use)",
		humanize.IBytes(uint64(size)), humanize.IBytes(uint64(a.used)),
		humanize.IBytes(uint64(len(a.arena))))
	return &Buffer{data: make([]byte, size), domain: OffChip}
}

// Release returns a buffer to the allocator. Like Alloc it is a
// collective call, performed exactly once per group after every lane is
// done with the buffer. A buffer must be released exactly once.
func (a *Allocator) Release(g *group.Group, l group.Lane, b *Buffer) {
	g.Collective(l, func() any {
		a.release(b)
		return nil
	})
}

func (a *Allocator) release(b *Buffer) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stats.Frees++
	if b.domain != OnChip {
		return // off-chip memory is reclaimed by the GC
	}
	// Bump allocation is stack-shaped: releasing the most recent
	// allocation rewinds the arena. Out-of-order releases leave their
	// space in place until the allocations above them are released too.
	if b.offset+alignUp(len(b.data), arenaAlign) == a.used {
		a.used = b.offset
	}
}

// Stats returns a snapshot of allocator activity.
func (a *Allocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// ArenaBytes returns the on-chip arena budget.
func (a *Allocator) ArenaBytes() int { return len(a.arena) }

func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}
