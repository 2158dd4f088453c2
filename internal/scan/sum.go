package scan

import (
	"golang.org/x/exp/constraints"

	"github.com/born-ml/bulk/internal/device"
	"github.com/born-ml/bulk/internal/group"
	"github.com/born-ml/bulk/internal/scratch"
)

// Numeric constrains the element types PrefixSum accepts.
type Numeric interface {
	constraints.Integer | constraints.Float
}

// sumGrain is the per-lane register tile for PrefixSum. Eight elements
// amortizes barrier cost without bloating the per-lane working set.
const sumGrain = 8

// PrefixSum computes the inclusive prefix sum of data in place, launching
// a cooperative group sized from the device descriptor. It is the
// addition special case of Inclusive for callers that do not manage
// groups themselves.
func PrefixSum[T Numeric](data []T) error {
	cfg := group.Config{Size: groupSizeFor(device.Current().NumCPU), Grain: sumGrain}
	a := scratch.NewAllocator()
	return group.Launch(cfg, func(g *group.Group, l group.Lane) {
		Inclusive(g, l, a, data, data, T(0), func(x, y T) T { return x + y })
	})
}

// groupSizeFor clamps hardware parallelism to a sane lane count: one
// goroutine lane per CPU, capped so barrier traffic stays cheap.
func groupSizeFor(numCPU int) int {
	if numCPU < 1 {
		return 1
	}
	if numCPU > 16 {
		return 16
	}
	return numCPU
}
