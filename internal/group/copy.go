package group

// CopyN cooperatively copies n elements from src to dst using every lane
// of the group: lane i copies elements i, i+Size, i+2*Size, ...
//
// CopyN contains no barrier. Callers that need the copied data visible to
// other lanes must Wait on both sides, as with any cross-lane write.
func CopyN[T any](g *Group, l Lane, src []T, n int, dst []T) {
	for i := l.Index(); i < n; i += g.Size() {
		dst[i] = src[i]
	}
}
