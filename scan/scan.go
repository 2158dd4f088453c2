// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package scan provides cooperative, tile-based prefix scans: inclusive
// and exclusive prefix reductions under an arbitrary associative
// operator, executed by a lock-step lane group and staged through scratch
// memory one tile at a time.
//
// All scan functions are cooperative calls: every lane of the group must
// make the call, and the functions contain barriers. Scratch memory comes
// from a shared package allocator sized from the device descriptor;
// callers that want their own arena use the internal allocator through a
// dedicated group.
//
// Example:
//
//	cfg := group.Config{Size: 4, Grain: 2}
//	in := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
//	out := make([]int, len(in))
//	_ = group.Launch(cfg, func(g *group.Group, l group.Lane) {
//	    scan.Exclusive(g, l, in, out, 0, func(x, y int) int { return x + y })
//	})
//	// out = [0, 1, 3, 6, 10, 15, 21, 28, 36]
package scan

import (
	"sync"

	internalscan "github.com/born-ml/bulk/internal/scan"
	internalscratch "github.com/born-ml/bulk/internal/scratch"

	"github.com/born-ml/bulk/group"
)

var (
	allocOnce sync.Once
	alloc     *internalscratch.Allocator
)

// allocator returns the shared scratch allocator, created lazily so the
// device descriptor is only queried when a scan actually runs.
func allocator() *internalscratch.Allocator {
	allocOnce.Do(func() {
		alloc = internalscratch.NewAllocator()
	})
	return alloc
}

// Inclusive computes the inclusive prefix scan of in into out:
// out[i] = init⊕in[0]⊕...⊕in[i]. out must have capacity for len(in)
// elements and may alias in. T must be pointer-free.
func Inclusive[T any](g *group.Group, l group.Lane, in, out []T, init T, op func(T, T) T) {
	internalscan.Inclusive(g, l, allocator(), in, out, init, op)
}

// Exclusive computes the exclusive prefix scan of in into out:
// out[i] = init⊕in[0]⊕...⊕in[i-1], with out[0] = init. out must have
// capacity for len(in) elements and may alias in. T must be pointer-free.
func Exclusive[T any](g *group.Group, l group.Lane, in, out []T, init T, op func(T, T) T) {
	internalscan.Exclusive(g, l, allocator(), in, out, init, op)
}

// InclusiveNoInit is the no-identity inclusive scan: the first input
// element seeds the carry and is written to out[0] unmodified. An empty
// input is a no-op. Returns the number of elements written.
func InclusiveNoInit[T any](g *group.Group, l group.Lane, in, out []T, op func(T, T) T) int {
	return internalscan.InclusiveNoInit(g, l, allocator(), in, out, op)
}

// Numeric constrains the element types PrefixSum accepts.
type Numeric = internalscan.Numeric

// PrefixSum computes the inclusive prefix sum of data in place, launching
// a cooperative group sized from the device descriptor.
func PrefixSum[T Numeric](data []T) error {
	return internalscan.PrefixSum(data)
}
