package planner

import "github.com/sdycore/reshard/axis"

// getAllToAllInfo finds the maximal contiguous suffix of inAxesPerDim[srcDim]
// that all map to the same other dimension tgtDim (spec §4.5), moves those
// axes there, and reports the move. ok is false if no such suffix exists
// (e.g. the back axis isn't seated anywhere yet, or maps back to srcDim).
func (s *state) getAllToAllInfo(srcDim int) (tgtDim int, movedAxes []axis.Ref, ok bool) {
	srcInAxes := s.inAxesPerDim[srcDim]
	srcSlice := srcInAxes.ToSlice()

	numAxes := 0
	var optTgtDim *int
	for i := len(srcSlice) - 1; i >= 0; i-- {
		loc, found := s.outAxisToDimAndIndex[srcSlice[i]]
		if !found || loc.Dim == srcDim || (optTgtDim != nil && loc.Dim != *optTgtDim) {
			break
		}
		dim := loc.Dim
		optTgtDim = &dim
		numAxes++
	}
	if optTgtDim == nil {
		return 0, nil, false
	}
	tgtDim = *optTgtDim
	startIdx := len(srcSlice) - numAxes

	s.currentAxesPerDim[srcDim] = popBackFromCurrentAxes(s.currentAxesPerDim[srcDim], srcSlice, startIdx)

	// Physically remove the suffix from srcInAxes; PopBack yields it in
	// reverse, so un-reverse it back into original left-to-right order.
	suffix := make([]axis.Ref, 0, numAxes)
	for i := 0; i < numAxes; i++ {
		a, _ := srcInAxes.PopBack()
		suffix = append(suffix, a)
	}
	for i, j := 0, len(suffix)-1; i < j; i, j = i+1, j-1 {
		suffix[i], suffix[j] = suffix[j], suffix[i]
	}

	tgtInAxes := s.inAxesPerDim[tgtDim]
	tgtOutAxes := s.outAxesPerDim[tgtDim]

	for _, a := range suffix {
		movedAxes = axis.AddOrMerge(movedAxes, a)
		s.currentAxesPerDim[tgtDim] = axis.AddOrMerge(s.currentAxesPerDim[tgtDim], a)
		delete(s.inAxisSet, a)

		front, hasFront := tgtOutAxes.Front()
		if tgtInAxes.Empty() && hasFront && front.Equal(a) {
			tgtOutAxes.PopFront()
		} else {
			tgtInAxes.PushBack(a)
			s.inAxisSet[a] = struct{}{}
		}
	}

	return tgtDim, movedAxes, true
}

// tryAllToAlls repeatedly scans every source dimension for a movable suffix
// until a full pass makes no progress (spec §4.5's fixpoint loop).
func (s *state) tryAllToAlls() {
	for {
		created := false
		for srcDim := 0; srcDim < s.rank(); srcDim++ {
			tgtDim, axes, ok := s.getAllToAllInfo(srcDim)
			if ok {
				s.emitter.EmitAllToAll(srcDim, tgtDim, axes, s.currentSharding())
				created = true
			}
		}
		if !created {
			return
		}
	}
}
