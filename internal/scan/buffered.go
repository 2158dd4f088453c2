package scan

import "github.com/born-ml/bulk/internal/group"

// smallExclusiveScanWithBuffer is the fast-path base case, fixed to
// exactly g.Size() elements (one per lane, received in data). It avoids
// the second barrier per round of smallInclusiveScan by double buffering:
// every round reads from ping and writes into pong, then the buffers swap
// roles, so no address is both read and written within a round.
//
// data and buffer must each hold g.Size() elements. The exclusive results
// are written back into data; the group total (combined with init) is
// returned as the carry.
func smallExclusiveScanWithBuffer[T any](g *group.Group, l group.Lane, data, buffer []T, init T, op func(T, T) T) T {
	size := g.Size()
	tid := l.Index()

	// ping points at the most current data.
	ping, pong := data, buffer

	if tid == 0 {
		data[0] = op(init, data[0])
	}
	x := data[tid]
	g.Wait()

	for offset := 1; offset < size; offset += offset {
		if tid >= offset {
			x = op(ping[tid-offset], x)
		}
		ping, pong = pong, ping
		ping[tid] = x
		g.Wait()
	}

	total := ping[size-1]

	if tid == 0 {
		x = init
	} else {
		x = ping[tid-1]
	}
	g.Wait()

	data[tid] = x
	g.Wait()

	return total
}
