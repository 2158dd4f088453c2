package scan

import (
	"unsafe"

	"github.com/born-ml/bulk/internal/group"
	"github.com/born-ml/bulk/internal/scratch"
)

// Scratch layout for one scan call: the sums region (two groupsize-wide
// ping/pong buffers for the cross-lane scan) sits at offset 0, the stage
// region (one tile of elements) follows it. The stage region doubles as
// the destage region: a tile's raw input and its final results are never
// live at the same time, so the two logical regions alias safely.
func scratchLayout[T any](g *group.Group) (stageBytes, sumsBytes int) {
	var zero T
	esz := int(unsafe.Sizeof(zero))
	return g.TileSize() * esz, 2 * g.Size() * esz
}

func scratchViews[T any](g *group.Group, buf *scratch.Buffer) (sums, stage []T) {
	var zero T
	esz := int(unsafe.Sizeof(zero))
	sums = scratch.View[T](buf, 0, 2*g.Size())
	stage = scratch.View[T](buf, 2*g.Size()*esz, g.TileSize())
	return sums, stage
}

// inclusiveScanWithBuffer scans in into out tile by tile, threading carry
// across tiles. Per tile: stage through scratch, fused per-lane copy and
// reduce of each grain-wide slice, cross-lane exclusive scan of the
// per-lane sums, per-lane re-expansion into inclusive results, destage.
//
// Tiles are strictly ordered: tile k+1 consumes tile k's carry.
func inclusiveScanWithBuffer[T any](g *group.Group, l group.Lane, in, out []T, carry T, op func(T, T) T, buf *scratch.Buffer) {
	size := g.Size()
	grain := g.Grain()
	tile := g.TileSize()
	tid := l.Index()

	sums, stage := scratchViews[T](g, buf)
	ping, pong := sums[:size], sums[size:]

	local := make([]T, grain)
	localOffset := grain * tid

	for base := 0; base < len(in); base += tile {
		partition := min(tile, len(in)-base)

		// Stage the tile's input through scratch.
		group.CopyN(g, l, in[base:], partition, stage)
		g.Wait()

		// Fused copy and accumulate: each lane pulls its grain-wide slice
		// into private storage while reducing it left to right. Slice
		// elements beyond the partition are never read.
		localSize := max(0, min(grain, partition-localOffset))

		var x T
		for i := 0; i < grain; i++ {
			index := localOffset + i
			if index < partition {
				local[i] = stage[index]
				if i == 0 {
					x = local[i]
				} else {
					x = op(x, local[i])
				}
			}
		}

		if localSize > 0 {
			ping[tid] = x
		}
		g.Wait()

		// Exclusive scan of the per-lane sums, seeded with the running
		// carry. Full tiles take the double-buffered fast path; the
		// irregular final tile scans only the lanes that own data.
		active := (partition + grain - 1) / grain
		if active == size {
			carry = smallExclusiveScanWithBuffer(g, l, ping, pong, carry, op)
		} else {
			carry = smallExclusiveScan(g, l, ping, active, carry, op)
		}

		if localSize > 0 {
			x = ping[tid]
		}

		// Re-expand: x starts as the lane's received prefix and walks the
		// private slice, emitting the inclusive running value.
		for i := 0; i < grain; i++ {
			index := localOffset + i
			if index < partition {
				x = op(x, local[i])
				stage[index] = x
			}
		}
		g.Wait()

		group.CopyN(g, l, stage, partition, out[base:])
		g.Wait()
	}
}

// exclusiveScanWithBuffer is inclusiveScanWithBuffer with the expansion
// loop emitting each element's pre-combination value instead of the
// running one.
func exclusiveScanWithBuffer[T any](g *group.Group, l group.Lane, in, out []T, carry T, op func(T, T) T, buf *scratch.Buffer) {
	size := g.Size()
	grain := g.Grain()
	tile := g.TileSize()
	tid := l.Index()

	sums, stage := scratchViews[T](g, buf)
	ping, pong := sums[:size], sums[size:]

	local := make([]T, grain)
	localOffset := grain * tid

	for base := 0; base < len(in); base += tile {
		partition := min(tile, len(in)-base)

		group.CopyN(g, l, in[base:], partition, stage)
		g.Wait()

		localSize := max(0, min(grain, partition-localOffset))

		var x T
		for i := 0; i < grain; i++ {
			index := localOffset + i
			if index < partition {
				local[i] = stage[index]
				if i == 0 {
					x = local[i]
				} else {
					x = op(x, local[i])
				}
			}
		}

		if localSize > 0 {
			ping[tid] = x
		}
		g.Wait()

		active := (partition + grain - 1) / grain
		if active == size {
			carry = smallExclusiveScanWithBuffer(g, l, ping, pong, carry, op)
		} else {
			carry = smallExclusiveScan(g, l, ping, active, carry, op)
		}

		if localSize > 0 {
			x = ping[tid]
		}

		for i := 0; i < grain; i++ {
			index := localOffset + i
			if index < partition {
				stage[index] = x
				x = op(x, local[i])
			}
		}
		g.Wait()

		group.CopyN(g, l, stage, partition, out[base:])
		g.Wait()
	}
}
