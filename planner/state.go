// Package planner implements the reshard-to-collectives driver and its four
// greedy collective strategies (spec.md §4, §9): given an input and output
// Sharding over the same Mesh, it synthesizes a minimal Chain of collectives
// — all-slice, collective-permute, all-to-all, all-gather, in that fixed
// order — that transforms one into the other.
//
// Grounded on the original's CollectiveInserter class
// (reshard_to_collectives.cc): state is its field set, translated from
// std::list<AxisRefAttr>/SmallVector iterator juggling onto axis.List and
// []axis.Ref, and the four tryX methods of this package are line-for-line translations
// of tryAllSlice/tryCollectivePermute/tryAllToAlls/tryAllGather.
package planner

import (
	"container/list"
	"errors"

	"github.com/sdycore/reshard/align"
	"github.com/sdycore/reshard/axis"
	"github.com/sdycore/reshard/collective"
	"github.com/sdycore/reshard/mesh"
	"github.com/sdycore/reshard/sharding"
)

// ErrResidualState indicates the four strategies left a non-empty residual
// diff: a mis-implementation, never a legitimate input outcome (spec §7,
// "internal invariant violation"). The caller is expected to have already
// rejected incompatible rank/mesh pairs via sharding.CheckCompatible before
// calling Plan; this error is a last-resort safety net, not a validation
// path a well-formed caller should ever observe.
var ErrResidualState = errors.New("planner: residual in/out axes remained after all strategies ran")

// location records where an axis sits in outAxesPerDim: outAxesPerDim[Dim][Index] == the axis.
type location struct {
	Dim   int
	Index int
}

// state is the live working set of a single Plan call (spec §3, "Planner
// state invariants"). It is single-threaded, allocation-local, and
// discarded when Plan returns (spec §5).
type state struct {
	m *mesh.Mesh

	inAxesPerDim      []*axis.List
	outAxesPerDim     []*axis.List
	currentAxesPerDim [][]axis.Ref

	// capacityPerDim is each dimension's remaining room for new axes. The
	// capacity math uses integer division and divisibility checks: when a
	// ratio of sharded sizes is not a whole number (possible on meshes whose
	// axis sizes are not powers of two), the capacity is 1 and slicing is
	// disabled in that scope, even where a sub-axis split would help.
	capacityPerDim []int64

	// inAxisSet and outAxisToDimAndIndex are keyed by axis.Ref value. They
	// are only built from families already aligned by align.Families (see
	// newState), where two refs overlap exactly when they are equal.
	inAxisSet            map[axis.Ref]struct{}
	outAxisToDimAndIndex map[axis.Ref]location

	emitter collective.Emitter
}

func newState(in, out *sharding.Sharding, emitter collective.Emitter) *state {
	rank := in.Rank()
	inPerDim := make([]*axis.List, rank)
	outPerDim := make([]*axis.List, rank)
	currentPerDim := make([][]axis.Ref, rank)
	for d := 0; d < rank; d++ {
		inPerDim[d] = axis.NewList(in.DimAxes[d]...)
		outPerDim[d] = axis.NewList(out.DimAxes[d]...)
		currentPerDim[d] = append([]axis.Ref(nil), in.DimAxes[d]...)
	}

	s := &state{
		m:                 in.M,
		inAxesPerDim:      inPerDim,
		outAxesPerDim:     outPerDim,
		currentAxesPerDim: currentPerDim,
		capacityPerDim:    make([]int64, rank),
		emitter:           emitter,
	}
	for d := range s.capacityPerDim {
		s.capacityPerDim[d] = 1
	}

	// Sub-axis alignment so overlap equals equality (spec §4.2, §8 P3),
	// then strip the stable common prefix per dimension (spec §4.1 steps
	// 2-3), leaving only the residual diff the four strategies resolve.
	align.Families(s.inAxesPerDim, s.outAxesPerDim)
	s.removeCommonPrefix()

	s.inAxisSet = s.buildAxisSet(s.inAxesPerDim)
	s.outAxisToDimAndIndex = s.buildAxisToDimAndIndex(s.outAxesPerDim)

	return s
}

func (s *state) rank() int { return len(s.inAxesPerDim) }

// removeCommonPrefix pops matching leading axes off both families for every
// dimension (spec §4.1 step 3): those axes never move during the reshard.
func (s *state) removeCommonPrefix() {
	for d := 0; d < s.rank(); d++ {
		in, out := s.inAxesPerDim[d], s.outAxesPerDim[d]
		for {
			a, aok := in.Front()
			b, bok := out.Front()
			if !aok || !bok || !a.Equal(b) {
				break
			}
			in.PopFront()
			out.PopFront()
		}
	}
}

func (s *state) buildAxisSet(perDim []*axis.List) map[axis.Ref]struct{} {
	set := make(map[axis.Ref]struct{})
	for _, l := range perDim {
		for _, a := range l.ToSlice() {
			set[a] = struct{}{}
		}
	}
	return set
}

func (s *state) buildAxisToDimAndIndex(perDim []*axis.List) map[axis.Ref]location {
	m := make(map[axis.Ref]location)
	for d, l := range perDim {
		for i, a := range l.ToSlice() {
			if _, exists := m[a]; !exists {
				m[a] = location{Dim: d, Index: i}
			}
		}
	}
	return m
}

// isDone reports whether both residual families are empty (spec §4.1 step 6).
func (s *state) isDone() bool {
	for d := 0; d < s.rank(); d++ {
		if !s.inAxesPerDim[d].Empty() || !s.outAxesPerDim[d].Empty() {
			return false
		}
	}
	return true
}

// currentSharding snapshots currentAxesPerDim into a Sharding value, the
// "resulting sharding attribute" every emitted op carries (spec §6).
func (s *state) currentSharding() *sharding.Sharding {
	sh, err := sharding.New(s.m, s.currentAxesPerDim)
	if err != nil {
		// currentAxesPerDim is built exclusively from refs already validated
		// against s.m by the original in/out shardings; this would indicate
		// a planner bug, not a user-facing error.
		panic(err)
	}
	return sh
}

// popBackFromCurrentAxes removes, from the back of currentAxes, the axes in
// axesToPop[fromIndex:] in reverse order, shrinking the back element's
// window to its non-overlapping prefix instead of removing it outright when
// the popped axis covers only a suffix of it (spec §4.3-§4.6: a back axis
// may only share a prefix with the axis being removed).
func popBackFromCurrentAxes(currentAxes []axis.Ref, axesToPop []axis.Ref, fromIndex int) []axis.Ref {
	for i := len(axesToPop) - 1; i >= fromIndex; i-- {
		a := axesToPop[i]
		back := currentAxes[len(currentAxes)-1]
		if prefix, has := back.GetPrefixWithoutOverlap(a); has {
			currentAxes[len(currentAxes)-1] = prefix
		} else {
			currentAxes = currentAxes[:len(currentAxes)-1]
		}
	}
	return currentAxes
}

// distributeInAxesWithinCapacity distributes axes from availableAxes across
// dimensions by remaining capacity (spec §4.3-§4.4): each axis is added
// whole if it fits the destination dimension's remaining capacity, else
// split so only the fitting prefix is added and the remainder is requeued.
// addToFront controls whether newly added axes are inserted before a
// dimension's pre-existing inAxesPerDim entries (used when those axes must
// be all-gathered only after axes behind them move via all-to-all) or
// appended after them. consume, if non-nil, is invoked for every axis
// actually added, with its destination dimension.
func (s *state) distributeInAxesWithinCapacity(availableAxes *axis.List, addToFront bool, totalCapacity *int64, consume func(a axis.Ref, dim int)) {
	if totalCapacity != nil && *totalCapacity == 1 {
		return
	}

	var splitAdded []axis.Ref
	for dim := 0; dim < s.rank(); dim++ {
		inAxes := s.inAxesPerDim[dim]
		var marker *list.Element
		if addToFront {
			marker = inAxes.FrontElement()
		}
		for !availableAxes.Empty() && s.capacityPerDim[dim] > 1 && (totalCapacity == nil || *totalCapacity > 1) {
			a, _ := availableAxes.PopFront()
			curCapacity := s.capacityPerDim[dim]
			if totalCapacity != nil && *totalCapacity < curCapacity {
				curCapacity = *totalCapacity
			}

			wc := axis.SplitWithinCapacity(a, curCapacity)
			if addToFront && marker != nil {
				inAxes.InsertBefore(wc.Within, marker)
			} else {
				inAxes.PushBack(wc.Within)
			}
			s.inAxisSet[wc.Within] = struct{}{}
			if consume != nil {
				consume(wc.Within, dim)
			}

			if wc.HasRemainder {
				splitAdded = append(splitAdded, wc.Within)
				availableAxes.PushFront(wc.Remainder)
			}

			s.capacityPerDim[dim] /= wc.SizeWithin
			if totalCapacity != nil {
				*totalCapacity /= wc.SizeWithin
			}
		}
	}

	// An axis from availableAxes may have been split due to a capacity
	// constraint; re-align outAxesPerDim against the newly split pieces.
	align.BySnapshot(s.outAxesPerDim, axis.Sorted(splitAdded))
}
