package axis_test

import (
	"testing"

	"github.com/sdycore/reshard/axis"
)

func TestCompareOrdersByNameThenPreSize(t *testing.T) {
	cases := []struct {
		a, b axis.Ref
		want int
	}{
		{axis.Whole("x", 4), axis.Whole("y", 4), -1},
		{axis.Whole("y", 4), axis.Whole("x", 4), 1},
		{axis.Sub("a", 1, 4), axis.Sub("a", 4, 2), -1},
		{axis.Sub("a", 4, 2), axis.Sub("a", 1, 4), 1},
		{axis.Whole("a", 8), axis.Whole("a", 8), 0},
	}
	for _, c := range cases {
		got := axis.Compare(c.a, c.b)
		if (got < 0) != (c.want < 0) || (got > 0) != (c.want > 0) || (got == 0) != (c.want == 0) {
			t.Fatalf("Compare(%v, %v) = %d, want sign of %d", c.a, c.b, got, c.want)
		}
	}
}

func TestOverlapsAndContains(t *testing.T) {
	a := axis.Sub("a", 1, 8) // [1,8)
	b := axis.Sub("a", 4, 4) // [4,16)

	if !a.Overlaps(b) {
		t.Fatalf("expected %v to overlap %v", a, b)
	}
	if a.Contains(b) || b.Contains(a) {
		t.Fatalf("neither %v nor %v should fully contain the other", a, b)
	}

	whole := axis.Whole("a", 16)
	sub := axis.Sub("a", 4, 2)
	if !whole.Contains(sub) {
		t.Fatalf("expected %v to contain %v", whole, sub)
	}
	if sub.Contains(whole) {
		t.Fatalf("did not expect %v to contain %v", sub, whole)
	}

	other := axis.Whole("b", 8)
	if a.Overlaps(other) || a.Contains(other) {
		t.Fatalf("refs on different axis names must never overlap or contain")
	}
}

func TestCanCoexist(t *testing.T) {
	a := axis.Sub("a", 1, 8)
	equal := axis.Sub("a", 1, 8)
	disjoint := axis.Sub("a", 8, 2)
	partial := axis.Sub("a", 4, 4)
	superset := axis.Whole("a", 16)

	if !a.CanCoexist(equal) {
		t.Fatalf("equal refs must coexist")
	}
	if !a.CanCoexist(disjoint) {
		t.Fatalf("disjoint refs must coexist")
	}
	if a.CanCoexist(partial) {
		t.Fatalf("partially overlapping refs must not coexist")
	}
	if a.CanCoexist(superset) {
		t.Fatalf("a strict sub-window of a superset must not coexist with it")
	}
}

// TestDecompositionScenario6 reproduces spec.md §8 scenario 6: "a":(1)8 and
// "a":(4)4 decompose into "a":(1)4, "a":(4)2, "a":(8)2.
func TestDecompositionScenario6(t *testing.T) {
	a := axis.Sub("a", 1, 8)
	b := axis.Sub("a", 4, 4)

	overlap, ok := a.GetOverlap(b)
	if !ok {
		t.Fatalf("expected an overlap between %v and %v", a, b)
	}
	wantOverlap := axis.Sub("a", 4, 2)
	if !overlap.Equal(wantOverlap) {
		t.Fatalf("GetOverlap = %v, want %v", overlap, wantOverlap)
	}

	prefix, hasPrefix := a.GetPrefixWithoutOverlap(b)
	if !hasPrefix || !prefix.Equal(axis.Sub("a", 1, 4)) {
		t.Fatalf("GetPrefixWithoutOverlap = %v, %v, want a:(1)4, true", prefix, hasPrefix)
	}

	suffix, hasSuffix := b.GetSuffixWithoutOverlap(a)
	if !hasSuffix || !suffix.Equal(axis.Sub("a", 8, 2)) {
		t.Fatalf("GetSuffixWithoutOverlap = %v, %v, want a:(8)2, true", suffix, hasSuffix)
	}

	// a itself has no suffix beyond the overlap (a ends exactly at the overlap end).
	if _, has := a.GetSuffixWithoutOverlap(b); has {
		t.Fatalf("a:(1)8 should have no suffix past its overlap with a:(4)4")
	}
	// b has no prefix before the overlap (b starts exactly at the overlap start).
	if _, has := b.GetPrefixWithoutOverlap(a); has {
		t.Fatalf("a:(4)4 should have no prefix before its overlap with a:(1)8")
	}
}

func TestAddOrMergeMergesContiguousWindows(t *testing.T) {
	var list []axis.Ref
	list = axis.AddOrMerge(list, axis.Sub("a", 1, 4))
	list = axis.AddOrMerge(list, axis.Sub("a", 4, 2))
	if len(list) != 1 || !list[0].Equal(axis.Sub("a", 1, 8)) {
		t.Fatalf("expected merge into a:(1)8, got %v", list)
	}

	list = axis.AddOrMerge(list, axis.Whole("b", 2))
	if len(list) != 2 {
		t.Fatalf("expected a new entry for a different axis name, got %v", list)
	}
}

func TestAddOrMergeIsIdempotentUnderRepeatedMerging(t *testing.T) {
	// P4: merging a list twice yields the same list.
	src := []axis.Ref{axis.Sub("a", 1, 4), axis.Sub("a", 4, 2), axis.Whole("b", 2)}

	merge := func(refs []axis.Ref) []axis.Ref {
		var out []axis.Ref
		for _, r := range refs {
			out = axis.AddOrMerge(out, r)
		}
		return out
	}

	once := merge(src)
	twice := merge(once)
	if len(once) != len(twice) {
		t.Fatalf("merge not idempotent: once=%v twice=%v", once, twice)
	}
	for i := range once {
		if !once[i].Equal(twice[i]) {
			t.Fatalf("merge not idempotent at %d: once=%v twice=%v", i, once, twice)
		}
	}
}

func TestSplitWithinCapacity(t *testing.T) {
	a := axis.Whole("a", 8)

	fits := axis.SplitWithinCapacity(a, 8)
	if fits.HasRemainder || fits.SizeWithin != 8 || !fits.Within.Equal(a) {
		t.Fatalf("capacity >= size should not split: got %+v", fits)
	}

	split := axis.SplitWithinCapacity(a, 2)
	if !split.HasRemainder {
		t.Fatalf("capacity < size must produce a remainder")
	}
	if !split.Within.Equal(axis.Sub("a", 1, 2)) {
		t.Fatalf("Within = %v, want a:(1)2", split.Within)
	}
	if !split.Remainder.Equal(axis.Sub("a", 2, 4)) {
		t.Fatalf("Remainder = %v, want a:(2)4", split.Remainder)
	}
	if split.SizeWithin != 2 {
		t.Fatalf("SizeWithin = %d, want 2", split.SizeWithin)
	}
}

func TestShardedSize(t *testing.T) {
	got := axis.ShardedSize([]axis.Ref{axis.Whole("x", 2), axis.Whole("y", 2)})
	if got != 4 {
		t.Fatalf("ShardedSize = %d, want 4", got)
	}
	if got := axis.ShardedSize(nil); got != 1 {
		t.Fatalf("ShardedSize(nil) = %d, want 1 (empty product)", got)
	}
}

func TestFirstOverlapping(t *testing.T) {
	ordered := axis.Sorted([]axis.Ref{
		axis.Whole("w", 2),
		axis.Sub("a", 1, 4),
		axis.Sub("a", 4, 2),
		axis.Whole("z", 2),
	})

	idx, ok := axis.FirstOverlapping(axis.Sub("a", 2, 2), ordered)
	if !ok {
		t.Fatalf("expected an overlap for a:(2)2")
	}
	if got := ordered[idx]; !got.Overlaps(axis.Sub("a", 2, 2)) {
		t.Fatalf("FirstOverlapping returned non-overlapping ref %v", got)
	}

	if _, ok := axis.FirstOverlapping(axis.Whole("q", 2), ordered); ok {
		t.Fatalf("did not expect an overlap for axis q")
	}

	if _, ok := axis.FirstOverlapping(axis.Whole("q", 2), nil); ok {
		t.Fatalf("FirstOverlapping on empty slice must report no overlap")
	}
}

func TestListFrontBackAndIteratorErase(t *testing.T) {
	l := axis.NewList(axis.Whole("x", 2), axis.Whole("y", 2), axis.Whole("z", 2))
	if l.Len() != 3 {
		t.Fatalf("Len = %d, want 3", l.Len())
	}

	front, ok := l.Front()
	if !ok || front.Name != "x" {
		t.Fatalf("Front = %v, %v, want x, true", front, ok)
	}

	e := l.FrontElement()
	next := l.Erase(e) // erase "x"
	if l.At(next).Name != "y" {
		t.Fatalf("Erase should return the following element (y), got %v", l.At(next))
	}
	if l.Len() != 2 {
		t.Fatalf("Len after erase = %d, want 2", l.Len())
	}

	l.InsertBefore(axis.Whole("w", 2), next)
	if got, _ := l.Front(); got.Name != "w" {
		t.Fatalf("Front after InsertBefore = %v, want w", got)
	}

	back, ok := l.PopBack()
	if !ok || back.Name != "z" {
		t.Fatalf("PopBack = %v, %v, want z, true", back, ok)
	}

	if got := l.ToSlice(); len(got) != 2 || got[0].Name != "w" || got[1].Name != "y" {
		t.Fatalf("ToSlice = %v, want [w y]", got)
	}
}
