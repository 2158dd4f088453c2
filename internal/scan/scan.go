// Package scan implements cooperative, tile-based prefix scans: inclusive
// and exclusive prefix reductions of a sequence under an associative
// operator, executed by a lock-step lane group and staged through scratch
// memory one tile (Size*Grain elements) at a time.
package scan

import (
	"fmt"

	"k8s.io/klog/v2"

	"github.com/born-ml/bulk/internal/group"
	"github.com/born-ml/bulk/internal/scratch"
)

// Inclusive computes the inclusive prefix scan of in into out:
// out[i] = init⊕in[0]⊕...⊕in[i]. out must have capacity for len(in)
// elements and may alias in. Every lane of the group must make the call;
// it contains barriers.
//
// The operator is applied in a fixed balanced-tree order within each
// power-of-two run and left to right elsewhere, so non-commutative and
// floating-point operators produce deterministic results.
func Inclusive[T any](g *group.Group, l group.Lane, a *scratch.Allocator, in, out []T, init T, op func(T, T) T) {
	if len(out) < len(in) {
		panic(fmt.Sprintf("scan: output holds %d elements, input has %d", len(out), len(in)))
	}

	stageBytes, sumsBytes := scratchLayout[T](g)
	buf := a.Alloc(g, l, stageBytes+sumsBytes)

	if klog.V(2).Enabled() && l.Index() == 0 {
		klog.Infof("scan: inclusive, %d elements through %s scratch", len(in), buf.Domain())
	}
	inclusiveScanWithBuffer(g, l, in, out, init, op, buf)

	a.Release(g, l, buf)
}

// Exclusive computes the exclusive prefix scan of in into out:
// out[i] = init⊕in[0]⊕...⊕in[i-1], with out[0] = init. out must have
// capacity for len(in) elements and may alias in. Every lane of the group
// must make the call; it contains barriers.
func Exclusive[T any](g *group.Group, l group.Lane, a *scratch.Allocator, in, out []T, init T, op func(T, T) T) {
	if len(out) < len(in) {
		panic(fmt.Sprintf("scan: output holds %d elements, input has %d", len(out), len(in)))
	}

	stageBytes, sumsBytes := scratchLayout[T](g)
	buf := a.Alloc(g, l, stageBytes+sumsBytes)

	if klog.V(2).Enabled() && l.Index() == 0 {
		klog.Infof("scan: exclusive, %d elements through %s scratch", len(in), buf.Domain())
	}
	exclusiveScanWithBuffer(g, l, in, out, init, op, buf)

	a.Release(g, l, buf)
}

// InclusiveNoInit is the no-identity inclusive scan: the first input
// element seeds the carry and is written to out[0] unmodified, then the
// rest of the input is scanned with that seed. An empty input is a no-op.
// Returns the number of elements written.
func InclusiveNoInit[T any](g *group.Group, l group.Lane, a *scratch.Allocator, in, out []T, op func(T, T) T) int {
	if len(in) == 0 {
		return 0
	}
	if len(out) < len(in) {
		panic(fmt.Sprintf("scan: output holds %d elements, input has %d", len(out), len(in)))
	}

	// out may alias in, so every lane reads the seed before lane 0
	// overwrites out[0].
	init := in[0]
	g.Wait()
	if l.Index() == 0 {
		out[0] = init
	}
	Inclusive(g, l, a, in[1:], out[1:], init, op)

	return len(in)
}
