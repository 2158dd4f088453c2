// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package scratch provides the scratch-memory allocator that cooperative
// primitives stage data through. Requests within the fast on-chip arena
// budget are served from it; larger requests spill to off-chip memory.
// Which domain a buffer landed in is observable but transparent to the
// algorithms using it.
package scratch

import (
	internalscratch "github.com/born-ml/bulk/internal/scratch"
)

// Allocator hands out scratch buffers for cooperative calls.
type Allocator = internalscratch.Allocator

// Buffer is an untyped scratch region shared by the lanes of one group.
type Buffer = internalscratch.Buffer

// Domain tags where a buffer's memory lives.
type Domain = internalscratch.Domain

// Memory domains for scratch buffers.
const (
	OnChip  = internalscratch.OnChip
	OffChip = internalscratch.OffChip
)

// Stats counts allocator activity.
type Stats = internalscratch.Stats

// Option configures an Allocator.
type Option = internalscratch.Option

// WithArenaBytes overrides the on-chip arena budget. The default comes
// from the device descriptor.
func WithArenaBytes(n int) Option {
	return internalscratch.WithArenaBytes(n)
}

// NewAllocator creates an allocator whose on-chip arena budget defaults
// to the device's scratch size.
func NewAllocator(opts ...Option) *Allocator {
	return internalscratch.NewAllocator(opts...)
}

// View interprets n elements of type T starting at byte offset off within
// the buffer, without copying. T must be pointer-free.
func View[T any](b *Buffer, off, n int) []T {
	return internalscratch.View[T](b, off, n)
}
