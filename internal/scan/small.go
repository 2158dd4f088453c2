package scan

import "github.com/born-ml/bulk/internal/group"

// smallInclusiveScan scans n <= g.Size() elements in place, one element
// per lane, by sequential doubling: each round every participating lane
// combines the value offset lanes behind it into its own, with a barrier
// between the read and the write of each round. Lanes at index >= n skip
// the data accesses but still reach every barrier.
//
// The in-place update is race-tolerant: within one round every lane reads
// before any lane writes, and the two barriers per round keep the rounds
// from overlapping.
func smallInclusiveScan[T any](g *group.Group, l group.Lane, data []T, n int, op func(T, T) T) {
	tid := l.Index()

	var x T
	if tid < n {
		x = data[tid]
	}
	g.Wait()

	for offset := 1; offset < n; offset += offset {
		if tid >= offset && tid < n {
			x = op(data[tid-offset], x)
		}
		g.Wait()
		if tid < n {
			data[tid] = x
		}
		g.Wait()
	}
}

// smallExclusiveScan converts the inclusive scan into an exclusive one:
// init is fused into element 0, the inclusive scan runs, and every lane's
// visible value is then shifted right by one (lane 0 receives init).
// Returns the total reduction init⊕data[0]⊕...⊕data[n-1], the carry for
// the caller's next tile.
func smallExclusiveScan[T any](g *group.Group, l group.Lane, data []T, n int, init T, op func(T, T) T) T {
	tid := l.Index()

	if n > 0 && tid == 0 {
		data[0] = op(init, data[0])
	}
	g.Wait()

	smallInclusiveScan(g, l, data, n, op)

	total := init
	if n > 0 {
		total = data[n-1]
	}

	var x T
	if tid == 0 || tid-1 >= n {
		x = init
	} else {
		x = data[tid-1]
	}
	g.Wait()

	if tid < n {
		data[tid] = x
	}
	g.Wait()

	return total
}
