// Package align implements sub-axis alignment by decomposition (spec.md
// §4.2): given two families of per-dimension ordered axis lists, it splits
// any axis that partially overlaps an axis in the other family into its
// non-overlapping prefix, the overlap itself, and its non-overlapping
// suffix, so that afterward every pair of axes across the two families is
// either identical or disjoint (spec §8, P3). That property is what lets the
// planner package treat axis equality as a complete overlap test and use
// axes as map keys (spec §9, "hashability of axis refs").
//
// Grounded directly on the original's alignSubAxesByDecomposition
// (reshard_to_collectives.cc): this package is a line-for-line idiomatic
// translation of its iterator-juggling loop onto axis.List, the
// container/list-backed analogue of its AxisList (std::list<AxisRefAttr>).
package align

import "github.com/sdycore/reshard/axis"

// OrderedAxes flattens every dimension's axis list into a single
// axis.Compare-sorted snapshot. This is the "orderedOtherAxes" argument the
// original computes once, before either family is mutated, so that aligning
// one family against a pre-mutation snapshot of the other never observes
// the other family's own in-flight decomposition.
func OrderedAxes(perDim []*axis.List) []axis.Ref {
	var all []axis.Ref
	for _, l := range perDim {
		all = append(all, l.ToSlice()...)
	}
	return axis.Sorted(all)
}

// BySnapshot decomposes every dimension's axis list in perDim against the
// fixed ordered snapshot orderedOther.
func BySnapshot(perDim []*axis.List, orderedOther []axis.Ref) {
	if len(orderedOther) == 0 {
		return
	}
	for _, l := range perDim {
		decomposeList(l, orderedOther)
	}
}

// Families aligns inPerDim and outPerDim bidirectionally (spec §4.2): each
// family is decomposed against a fixed, pre-mutation snapshot of the other.
func Families(inPerDim, outPerDim []*axis.List) {
	orderedIn := OrderedAxes(inPerDim)
	orderedOut := OrderedAxes(outPerDim)
	BySnapshot(inPerDim, orderedOut)
	BySnapshot(outPerDim, orderedIn)
}

// decomposeList walks axes, replacing any element that partially overlaps
// (without being fully contained by) an entry of orderedOther with its
// prefix/overlap/suffix pieces, continuing with the suffix against the next
// candidate in orderedOther. Equal or fully-contained-by-other axes are left
// alone: they already coexist with orderedOther without needing a split
// (spec §4.2, "B partially but not fully contains A").
func decomposeList(axes *axis.List, orderedOther []axis.Ref) {
	e := axes.FrontElement()
	for e != nil {
		a := axes.At(e)
		idx, found := axis.FirstOverlapping(a, orderedOther)
		advancedInLoop := false
		for found {
			other := orderedOther[idx]
			if !(other.Overlaps(a) && !other.Contains(a)) {
				break
			}

			next := axes.Erase(e)
			if prefix, has := a.GetPrefixWithoutOverlap(other); has {
				axes.InsertBefore(prefix, next)
			}
			if overlap, ok := a.GetOverlap(other); ok {
				axes.InsertBefore(overlap, next)
			}
			if suffix, has := a.GetSuffixWithoutOverlap(other); has {
				// The suffix is the next piece to check, against the
				// following candidate in orderedOther.
				e = axes.InsertBefore(suffix, next)
				a = suffix
				idx++
				found = idx < len(orderedOther)
				continue
			}
			advancedInLoop = true
			e = next
			break
		}
		if !advancedInLoop {
			if e != nil {
				e = e.Next()
			}
		}
	}
}
