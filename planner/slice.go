package planner

import (
	"container/list"

	"github.com/sdycore/reshard/axis"
)

// updateCapacityPerDimForSlice recomputes capacityPerDim as the ratio of
// out-to-in sharded size per dimension (or 1 if not divisible), and returns
// the same ratio over the whole tensor (spec §4.3, "Capacity accounting").
func (s *state) updateCapacityPerDimForSlice() int64 {
	var totalIn, totalOut int64 = 1, 1
	for d := 0; d < s.rank(); d++ {
		inSize := axis.ShardedSize(s.inAxesPerDim[d].ToSlice())
		outSize := axis.ShardedSize(s.outAxesPerDim[d].ToSlice())
		totalIn *= inSize
		totalOut *= outSize
		if inSize != 0 && outSize%inSize == 0 {
			s.capacityPerDim[d] = outSize / inSize
		} else {
			s.capacityPerDim[d] = 1
		}
	}
	if totalIn != 0 && totalOut%totalIn == 0 {
		return totalOut / totalIn
	}
	return 1
}

// getSlicingAxesPerDim computes the per-dimension axes to slice, per the two
// stages of spec §4.3, or reports ok=false when total capacity is 1 (slicing
// disabled).
func (s *state) getSlicingAxesPerDim() ([][]axis.Ref, bool) {
	totalCapacity := s.updateCapacityPerDimForSlice()
	if totalCapacity <= 1 {
		return nil, false
	}

	slicingAxesPerDim := make([][]axis.Ref, s.rank())
	availableOutAxes := axis.NewList()

	// Stage 1: slice axes in the dimension they are already destined for.
	for d := 0; d < s.rank(); d++ {
		inAxes := s.inAxesPerDim[d]
		outAxes := s.outAxesPerDim[d]

		outIt := outAxes.FrontElement()
		for outIt != nil && totalCapacity > 1 {
			outAxisVal := outAxes.At(outIt)
			if _, present := s.inAxisSet[outAxisVal]; present {
				outIt = outIt.Next()
				continue
			}

			if s.capacityPerDim[d] <= 1 {
				availableOutAxes.PushBack(outAxisVal)
				outIt = outIt.Next()
				continue
			}

			curCapacity := s.capacityPerDim[d]
			if totalCapacity < curCapacity {
				curCapacity = totalCapacity
			}
			wc := axis.SplitWithinCapacity(outAxisVal, curCapacity)
			slicingAxesPerDim[d] = axis.AddOrMerge(slicingAxesPerDim[d], wc.Within)
			s.currentAxesPerDim[d] = axis.AddOrMerge(s.currentAxesPerDim[d], wc.Within)

			var insertPoint *list.Element
			if inAxes.Empty() && outIt == outAxes.FrontElement() {
				insertPoint = outAxes.Erase(outIt)
				outIt = insertPoint
			} else {
				s.inAxisSet[wc.Within] = struct{}{}
				inAxes.PushBack(wc.Within)
				outAxes.Set(outIt, wc.Within)
				outIt = outIt.Next()
				insertPoint = outIt
			}
			if wc.HasRemainder {
				if insertPoint != nil {
					outAxes.InsertBefore(wc.Remainder, insertPoint)
				} else {
					outAxes.PushBack(wc.Remainder)
				}
				availableOutAxes.PushBack(wc.Remainder)
			}

			totalCapacity /= wc.SizeWithin
			s.capacityPerDim[d] /= wc.SizeWithin
		}
	}

	// Stage 2: distribute whatever's left across dimensions with remaining capacity.
	s.distributeInAxesWithinCapacity(availableOutAxes, false, &totalCapacity,
		func(a axis.Ref, dim int) {
			slicingAxesPerDim[dim] = axis.AddOrMerge(slicingAxesPerDim[dim], a)
			s.currentAxesPerDim[dim] = axis.AddOrMerge(s.currentAxesPerDim[dim], a)
		})

	s.outAxisToDimAndIndex = s.buildAxisToDimAndIndex(s.outAxesPerDim)

	return slicingAxesPerDim, true
}

// tryAllSlice attempts to insert an all-slice (spec §4.3).
func (s *state) tryAllSlice() {
	slicingAxesPerDim, ok := s.getSlicingAxesPerDim()
	if !ok {
		return
	}
	s.emitter.EmitAllSlice(slicingAxesPerDim, s.currentSharding())
}
