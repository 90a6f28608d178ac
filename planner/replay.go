package planner

import (
	"errors"
	"fmt"

	"github.com/sdycore/reshard/axis"
	"github.com/sdycore/reshard/collective"
	"github.com/sdycore/reshard/sharding"
)

// ErrReplayMismatch indicates a chain's recorded per-op Result does not
// match what independently recomputing that op's semantic effect produces,
// or the chain's end does not reach the expected sharding.
var ErrReplayMismatch = errors.New("planner: replayed chain did not reach the expected sharding")

// Replay independently recomputes the semantic effect of every op in chain
// starting from in, checking each against that op's own recorded Result, and
// (if want is non-nil) checking the final sharding against want. This is the
// supplement spec.md §8's "Round-trip" property calls for: the host compiler
// this planner was extracted from has its own IR verifier to catch a chain
// that doesn't actually reach its target, which this module doesn't have, so
// Replay exists to let tests and callers check that independently.
//
// collective-permute's effect is taken on faith from its own recorded
// Result: unlike the other three kinds, a permute's new per-dimension axis
// order isn't reconstructible from the op's fields alone. Every other kind
// is recomputed from scratch.
func Replay(in *sharding.Sharding, chain *collective.Chain, want *sharding.Sharding) (*sharding.Sharding, error) {
	cur := in.Clone()
	for i, op := range chain.Ops {
		next, err := applyOp(cur, op)
		if err != nil {
			return nil, fmt.Errorf("replaying op %d (%s): %w", i, op.Kind, err)
		}
		if !next.Equal(op.Result) {
			return nil, fmt.Errorf("%w: op %d (%s) recomputed %s, recorded %s",
				ErrReplayMismatch, i, op.Kind, next, op.Result)
		}
		cur = next
	}
	if want != nil && !cur.Equal(want) {
		return nil, fmt.Errorf("%w: final %s, want %s", ErrReplayMismatch, cur, want)
	}
	return cur, nil
}

func applyOp(cur *sharding.Sharding, op collective.Op) (*sharding.Sharding, error) {
	switch op.Kind {
	case collective.AllSlice:
		dims := cloneDims(cur)
		for d := range dims {
			for _, a := range op.PerDimAxes[d] {
				dims[d] = axis.AddOrMerge(dims[d], a)
			}
		}
		return sharding.New(cur.M, dims, cur.ReplicatedAxes...)

	case collective.AllGather:
		dims := cloneDims(cur)
		for d := range dims {
			dims[d] = popBackFromCurrentAxes(dims[d], op.PerDimAxes[d], 0)
		}
		return sharding.New(cur.M, dims, cur.ReplicatedAxes...)

	case collective.AllToAll:
		dims := cloneDims(cur)
		dims[op.SrcDim] = popBackFromCurrentAxes(dims[op.SrcDim], op.Axes, 0)
		for _, a := range op.Axes {
			dims[op.TgtDim] = axis.AddOrMerge(dims[op.TgtDim], a)
		}
		return sharding.New(cur.M, dims, cur.ReplicatedAxes...)

	case collective.CollectivePermute:
		return op.Result, nil

	default:
		return nil, fmt.Errorf("unknown collective kind %d", int(op.Kind))
	}
}

func cloneDims(s *sharding.Sharding) [][]axis.Ref {
	dims := make([][]axis.Ref, s.Rank())
	for d := range dims {
		dims[d] = append([]axis.Ref(nil), s.DimAxes[d]...)
	}
	return dims
}
