package scratch

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Domain tags where a scratch buffer's memory lives. The scan engine is
// generic over the domain: the same code runs on either, only staging
// latency differs.
type Domain int

// Memory domains for scratch buffers.
const (
	// OnChip buffers come from the allocator's fast fixed-budget arena.
	OnChip Domain = iota
	// OffChip buffers come from process heap, used when a request exceeds
	// the arena budget.
	OffChip
)

// String returns a human-readable domain name.
func (d Domain) String() string {
	switch d {
	case OnChip:
		return "on-chip"
	case OffChip:
		return "off-chip"
	default:
		return "unknown"
	}
}

// Buffer is an untyped scratch region shared by all lanes of one group.
// Its provenance is fixed for the lifetime of the allocation. Access is
// through typed views computed from byte offsets; see View.
type Buffer struct {
	data   []byte
	domain Domain

	// offset is the buffer's position in the arena, used to return the
	// space on release. Meaningless for off-chip buffers.
	offset int
}

// Len returns the buffer's size in bytes.
func (b *Buffer) Len() int { return len(b.data) }

// OnChip reports whether the buffer was drawn from the fast arena.
func (b *Buffer) OnChip() bool { return b.domain == OnChip }

// Domain returns the buffer's memory domain tag.
func (b *Buffer) Domain() Domain { return b.domain }

// View interprets n elements of type T starting at byte offset off within
// the buffer. The returned slice aliases the buffer; no copy is made.
//
// T must be pointer-free: the arena is untyped memory the garbage
// collector does not scan, so a pointer stored only in a view would not
// keep its referent alive. Panics on pointer-containing types, on windows
// falling outside the buffer, and on offsets that are not a multiple of
// T's size (which would produce misaligned loads).
func View[T any](b *Buffer, off, n int) []T {
	if typeHasPointers(reflect.TypeOf((*T)(nil)).Elem()) {
		panic(fmt.Sprintf("scratch: element type %T contains pointers and cannot live in an untyped arena", *new(T)))
	}
	if n == 0 {
		return nil
	}
	var zero T
	esz := int(unsafe.Sizeof(zero))
	end := off + n*esz
	if off < 0 || end > len(b.data) {
		panic(fmt.Sprintf("scratch: view [%d:%d) out of range of %d-byte buffer", off, end, len(b.data)))
	}
	if off%esz != 0 {
		panic(fmt.Sprintf("scratch: view offset %d not aligned to element size %d", off, esz))
	}
	//nolint:gosec // zero-copy reinterpretation of the arena, bounds checked above
	return unsafe.Slice((*T)(unsafe.Pointer(&b.data[off])), n)
}

// typeHasPointers reports whether values of t embed Go pointers anywhere
// (including strings, slices, maps, channels, and interfaces).
func typeHasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return typeHasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if typeHasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
