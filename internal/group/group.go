// Package group implements the fixed-size cooperative lane group that all
// bulk primitives execute on: a set of lanes running the same kernel in
// lock-step, synchronized through a full-group barrier.
package group

import (
	"sync"

	"github.com/pkg/errors"
)

// Config fixes the shape of a group for one launch. Size is the number of
// cooperating lanes, Grain the number of elements each lane processes per
// tile. Both are fixed at the call site and never change at runtime.
type Config struct {
	Size  int
	Grain int
}

// Validate checks that the configuration describes a launchable group.
func (c Config) Validate() error {
	if c.Size < 1 {
		return errors.Errorf("group: size must be >= 1, got %d", c.Size)
	}
	if c.Grain < 1 {
		return errors.Errorf("group: grain must be >= 1, got %d", c.Grain)
	}
	return nil
}

// Group is a fixed-size set of cooperating lanes. It owns no data; it is
// the synchronization and identity context threaded through every
// cooperative operation. A Group is only valid for the duration of the
// Launch call that created it.
type Group struct {
	size  int
	grain int

	barrier *barrier

	// collective holds the value being broadcast by Collective between
	// its two barriers. Only lane 0 writes it.
	collective any
}

// Size returns the number of lanes in the group.
func (g *Group) Size() int { return g.size }

// Grain returns the number of elements each lane handles per tile.
func (g *Group) Grain() int { return g.grain }

// TileSize returns Size*Grain, the number of elements one tile covers.
func (g *Group) TileSize() int { return g.size * g.grain }

// Wait blocks the calling lane until every lane in the group has reached
// the same Wait. Writes made by any lane before its Wait are visible to
// every lane after the Wait returns.
//
// Every lane must reach every Wait: routing only "active" lanes through a
// barrier deadlocks the group.
func (g *Group) Wait() { g.barrier.await() }

// Lane identifies one unit of execution within a group by its index in
// [0, Size).
type Lane struct {
	index int
}

// Index returns the lane's index within its group.
func (l Lane) Index() int { return l.index }

// Collective runs fn on lane 0 only and returns its result on every lane.
// It is the building block for operations that must happen exactly once
// per group (scratch allocation and release). Every lane must call it.
func (g *Group) Collective(l Lane, fn func() any) any {
	if l.Index() == 0 {
		g.collective = fn()
	}
	g.Wait()
	v := g.collective
	g.Wait()
	return v
}

// Launch runs kernel on cfg.Size lanes in lock-step and blocks until every
// lane has returned. The kernel is invoked once per lane with the shared
// Group and that lane's identity.
func Launch(cfg Config, kernel func(g *Group, l Lane)) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "launch")
	}

	g := &Group{
		size:    cfg.Size,
		grain:   cfg.Grain,
		barrier: newBarrier(cfg.Size),
	}

	var wg sync.WaitGroup
	wg.Add(cfg.Size)
	for i := 0; i < cfg.Size; i++ {
		go func(idx int) {
			defer wg.Done()
			kernel(g, Lane{index: idx})
		}(i)
	}
	wg.Wait()

	return nil
}
