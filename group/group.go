// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package group provides the cooperative lane groups that bulk primitives
// execute on: a fixed number of lanes running one kernel in lock-step,
// synchronized through a full-group barrier.
//
// Example:
//
//	import (
//	    "github.com/born-ml/bulk/group"
//	    "github.com/born-ml/bulk/scan"
//	)
//
//	func main() {
//	    data := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
//	    out := make([]int, len(data))
//
//	    cfg := group.Config{Size: 4, Grain: 2}
//	    _ = group.Launch(cfg, func(g *group.Group, l group.Lane) {
//	        scan.Inclusive(g, l, data, out, 0, func(x, y int) int { return x + y })
//	    })
//	    // out = [1, 3, 6, 10, 15, 21, 28, 36, 45]
//	}
package group

import (
	internalgroup "github.com/born-ml/bulk/internal/group"
)

// Config fixes the shape of a group for one launch: Size lanes, each
// processing Grain elements per tile.
type Config = internalgroup.Config

// Group is a fixed-size set of cooperating lanes sharing barrier
// synchronization and scratch memory for one launch.
type Group = internalgroup.Group

// Lane identifies one unit of execution within a group.
type Lane = internalgroup.Lane

// Launch runs kernel on cfg.Size lanes in lock-step and blocks until
// every lane has returned.
func Launch(cfg Config, kernel func(g *Group, l Lane)) error {
	return internalgroup.Launch(cfg, kernel)
}

// CopyN cooperatively copies n elements from src to dst using every lane
// of the group. It contains no barrier; callers must Wait on both sides
// when ordering against other lanes' accesses is required.
func CopyN[T any](g *Group, l Lane, src []T, n int, dst []T) {
	internalgroup.CopyN(g, l, src, n, dst)
}
