package group

import "sync"

// barrier is a reusable full-group rendezvous. Arrivals are counted under
// the mutex; the last lane to arrive advances the phase and wakes the
// rest. The phase counter (rather than the arrival count) is what waiters
// watch, so a lane racing ahead into the next barrier cannot be confused
// with a late arrival at the previous one.
type barrier struct {
	mu    sync.Mutex
	cond  *sync.Cond
	size  int
	count int
	phase uint64
}

func newBarrier(size int) *barrier {
	b := &barrier{size: size}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// await blocks until size lanes have called it for the current phase.
func (b *barrier) await() {
	b.mu.Lock()
	phase := b.phase
	b.count++
	if b.count == b.size {
		b.count = 0
		b.phase++
		b.cond.Broadcast()
		b.mu.Unlock()
		return
	}
	for phase == b.phase {
		b.cond.Wait()
	}
	b.mu.Unlock()
}
