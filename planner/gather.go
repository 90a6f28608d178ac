package planner

import "github.com/sdycore/reshard/axis"

// getGatheringAxes clears inAxesPerDim[dim] and returns the axes it held,
// having first shrunk currentAxesPerDim[dim]'s back to remove them (spec
// §4.6). By the time tryAllGather runs, outAxesPerDim is guaranteed empty
// (every out axis was handled by an earlier strategy), so whatever remains
// in inAxesPerDim is exactly what must be gathered.
func (s *state) getGatheringAxes(dim int) []axis.Ref {
	inAxes := s.inAxesPerDim[dim]
	if inAxes.Empty() {
		return nil
	}

	srcSlice := inAxes.ToSlice()
	s.currentAxesPerDim[dim] = popBackFromCurrentAxes(s.currentAxesPerDim[dim], srcSlice, 0)

	var gatheringAxes []axis.Ref
	for _, a := range srcSlice {
		gatheringAxes = axis.AddOrMerge(gatheringAxes, a)
		delete(s.inAxisSet, a)
	}
	inAxes.Clear()
	return gatheringAxes
}

// tryAllGather performs the final sweep (spec §4.6): gather whatever axes
// remain in inAxesPerDim, one list per dimension, in a single op.
func (s *state) tryAllGather() {
	perDim := make([][]axis.Ref, s.rank())
	hasGatheringAxes := false
	for d := 0; d < s.rank(); d++ {
		g := s.getGatheringAxes(d)
		if len(g) > 0 {
			hasGatheringAxes = true
		}
		perDim[d] = g
	}
	if hasGatheringAxes {
		s.emitter.EmitAllGather(perDim, s.currentSharding())
	}
}
