// Package axis implements the axis algebra of spec.md §3–§4.2: AxisRef
// representation (a whole mesh axis or a sub-axis window), the strict total
// order over refs, and the derived overlap/containment operations that let
// the planner treat sub-axes like full axes once they have been aligned
// (package align).
//
// A Ref denotes a window over a named mesh axis using a multiplicative
// interval [PreSize, PreSize*Size). PreSize is the size of the "outer"
// factor split off to the left of the window; Size is the window's own
// length. A whole axis is represented as PreSize == 1, Size == the axis's
// full size. Two refs on different axis names never overlap or contain one
// another; refs on the same name are compared purely by their intervals.
package axis

import "fmt"

// Ref is either a whole mesh axis or a sub-axis window (name, preSize, size).
// preSize*size must divide the full size of the named mesh axis; this
// package does not validate that against a mesh.Mesh (callers that build
// Refs from user input should use mesh.Mesh.AxisSize to check).
type Ref struct {
	Name    string
	PreSize int64
	Size    int64
}

// Whole returns a Ref spanning the entire named axis of the given size.
func Whole(name string, size int64) Ref {
	return Ref{Name: name, PreSize: 1, Size: size}
}

// Sub returns a sub-axis window (name, preSize, size).
func Sub(name string, preSize, size int64) Ref {
	return Ref{Name: name, PreSize: preSize, Size: size}
}

// start returns the inclusive lower bound of the ref's multiplicative
// interval.
func (a Ref) start() int64 { return a.PreSize }

// end returns the exclusive upper bound of the ref's multiplicative interval.
func (a Ref) end() int64 { return a.PreSize * a.Size }

// IsWholeAxis reports whether a spans the axis from its very start
// (PreSize == 1); it does not know the axis's full size, so it cannot by
// itself confirm a spans the entire axis — callers that need that should
// compare a.Size against mesh.Mesh.AxisSize(a.Name).
func (a Ref) IsWholeAxis() bool { return a.PreSize == 1 }

// String renders a Ref the way the original IR attribute prints sub-axes:
// "name" when PreSize == 1, "name:(preSize)size" otherwise. A Ref does not
// know its axis's full size, so a leading sub-axis such as a:(1)4 on an
// axis of size 8 also prints as just "a".
func (a Ref) String() string {
	if a.PreSize == 1 {
		return a.Name
	}
	return fmt.Sprintf("%s:(%d)%d", a.Name, a.PreSize, a.Size)
}

// Equal reports whether a and b denote the exact same window.
func (a Ref) Equal(b Ref) bool {
	return a.Name == b.Name && a.PreSize == b.PreSize && a.Size == b.Size
}

// Compare defines the strict total order over Refs required by spec §3:
// first by name, then by PreSize. Returns a negative number if a < b, zero
// if equal, a positive number if a > b. This order is what makes binary
// search over a sorted []Ref correct in FirstOverlapping.
func Compare(a, b Ref) int {
	if a.Name != b.Name {
		if a.Name < b.Name {
			return -1
		}
		return 1
	}
	switch {
	case a.PreSize < b.PreSize:
		return -1
	case a.PreSize > b.PreSize:
		return 1
	default:
		return 0
	}
}

// Less reports a < b under Compare, for use with sort.Slice / slices.SortFunc.
func Less(a, b Ref) bool { return Compare(a, b) < 0 }

// Overlaps reports whether a and b's windows intersect in at least one
// element. Same-named equal or containing refs count as overlapping; only
// disjoint windows (or refs on different axes) do not.
func (a Ref) Overlaps(b Ref) bool {
	if a.Name != b.Name {
		return false
	}
	lo := max64(a.start(), b.start())
	hi := min64(a.end(), b.end())
	return lo < hi
}

// Contains reports whether a's window is a (non-strict) superset of b's.
func (a Ref) Contains(b Ref) bool {
	if a.Name != b.Name {
		return false
	}
	return a.start() <= b.start() && b.end() <= a.end()
}

// CanCoexist reports whether a and b may appear side by side as distinct,
// atomic axis refs without requiring decomposition: true when they are
// exactly equal or are disjoint, false when one strictly contains the other
// or they partially overlap (spec §3: "one is not a strict sub-window of
// the other and they do not partially overlap").
func (a Ref) CanCoexist(b Ref) bool {
	return a.Equal(b) || !a.Overlaps(b)
}

// GetOverlap returns the intersection window of a and b, and whether one
// exists.
func (a Ref) GetOverlap(b Ref) (Ref, bool) {
	if !a.Overlaps(b) {
		return Ref{}, false
	}
	lo := max64(a.start(), b.start())
	hi := min64(a.end(), b.end())
	return Ref{Name: a.Name, PreSize: lo, Size: hi / lo}, true
}

// GetPrefixWithoutOverlap returns the part of a's window strictly left of
// its intersection with b, and whether a non-empty prefix exists.
func (a Ref) GetPrefixWithoutOverlap(b Ref) (Ref, bool) {
	overlap, ok := a.GetOverlap(b)
	if !ok || a.start() == overlap.start() {
		return Ref{}, false
	}
	return Ref{Name: a.Name, PreSize: a.start(), Size: overlap.start() / a.start()}, true
}

// GetSuffixWithoutOverlap returns the part of a's window strictly right of
// its intersection with b, and whether a non-empty suffix exists.
func (a Ref) GetSuffixWithoutOverlap(b Ref) (Ref, bool) {
	overlap, ok := a.GetOverlap(b)
	if !ok || overlap.end() == a.end() {
		return Ref{}, false
	}
	return Ref{Name: a.Name, PreSize: overlap.end(), Size: a.end() / overlap.end()}, true
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
