package planner

import "github.com/sdycore/reshard/axis"

// shouldCollectivePermute reports whether a collective-permute would make
// progress, per the five-way disjunction of spec §4.4: a dimension has both
// residual in and out axes to swap; some out axis is unseated while some in
// axis is unseated; or an in dimension's axes map to out dimensions
// out-of-contiguity, out-of-order, or with a to-be-gathered axis stranded
// ahead of an axis bound elsewhere.
func (s *state) shouldCollectivePermute() bool {
	availableInAxis := false
	availableOutAxis := false

	for d := 0; d < s.rank(); d++ {
		inAxes := s.inAxesPerDim[d]
		outAxes := s.outAxesPerDim[d]
		if !inAxes.Empty() && !outAxes.Empty() {
			return true
		}

		for _, outAxis := range outAxes.ToSlice() {
			if _, present := s.inAxisSet[outAxis]; !present {
				availableOutAxis = true
			}
		}

		var lastOutDim *int
		lastOutIndex := 0
		seenDims := make([]bool, s.rank())
		for _, inAxis := range inAxes.ToSlice() {
			loc, found := s.outAxisToDimAndIndex[inAxis]
			if !found {
				availableInAxis = true
			}

			var curOutDim *int
			if found {
				dim := loc.Dim
				curOutDim = &dim
				if seenDims[loc.Dim] && (lastOutDim == nil || *lastOutDim != loc.Dim || loc.Index < lastOutIndex) {
					return true
				}
				seenDims[loc.Dim] = true
				lastOutIndex = loc.Index
			} else if lastOutDim != nil {
				return true
			}
			lastOutDim = curOutDim
		}
	}

	return availableOutAxis && availableInAxis
}

// performCollectivePermute picks a new current sharding per dimension (spec
// §4.4): clear inAxesPerDim, seat as many outAxesPerDim axes as the
// dimension's original in-capacity allows, then redistribute whatever's
// left (available out axes to the back, available in axes to the front so
// they all-gather only after any all-to-all).
func (s *state) performCollectivePermute() {
	availableInAxes := axis.NewList()
	availableOutAxes := axis.NewList()
	s.inAxisSet = make(map[axis.Ref]struct{})

	for d := 0; d < s.rank(); d++ {
		inAxes := s.inAxesPerDim[d]
		outAxes := s.outAxesPerDim[d]
		currentAxes := s.currentAxesPerDim[d]

		s.capacityPerDim[d] = axis.ShardedSize(inAxes.ToSlice())

		for _, a := range inAxes.ToSlice() {
			if _, found := s.outAxisToDimAndIndex[a]; !found {
				availableInAxes.PushBack(a)
			}
		}

		currentAxes = popBackFromCurrentAxes(currentAxes, inAxes.ToSlice(), 0)
		inAxes.Clear()

		for s.capacityPerDim[d] > 1 && !outAxes.Empty() {
			outAxis, _ := outAxes.PopFront()
			wc := axis.SplitWithinCapacity(outAxis, s.capacityPerDim[d])
			currentAxes = axis.AddOrMerge(currentAxes, wc.Within)
			if wc.HasRemainder {
				outAxes.PushFront(wc.Remainder)
			}
			s.capacityPerDim[d] /= wc.SizeWithin
		}
		s.currentAxesPerDim[d] = currentAxes

		for _, a := range outAxes.ToSlice() {
			availableOutAxes.PushBack(a)
		}
	}

	s.distributeInAxesWithinCapacity(availableOutAxes, false, nil, nil)
	s.distributeInAxesWithinCapacity(availableInAxes, true, nil, nil)

	s.outAxisToDimAndIndex = s.buildAxisToDimAndIndex(s.outAxesPerDim)

	for d := 0; d < s.rank(); d++ {
		for _, a := range s.inAxesPerDim[d].ToSlice() {
			s.currentAxesPerDim[d] = axis.AddOrMerge(s.currentAxesPerDim[d], a)
		}
	}
}

// tryCollectivePermute attempts to insert a collective-permute (spec §4.4).
func (s *state) tryCollectivePermute() {
	if !s.shouldCollectivePermute() {
		return
	}
	s.performCollectivePermute()
	s.emitter.EmitCollectivePermute(s.currentSharding())
}
