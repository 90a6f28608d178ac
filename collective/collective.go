// Package collective models the four primitive collective operations the
// planner emits (spec.md §9, "Polymorphism"): all-slice, collective-permute,
// all-to-all, and all-gather, as a closed tagged-variant sum type rather than
// an open class hierarchy, plus the Chain the planner produces and the
// Emitter interface external IR builders implement to consume it (spec §6).
package collective

import (
	"fmt"

	"github.com/sdycore/reshard/axis"
	"github.com/sdycore/reshard/sharding"
)

// Kind identifies which of the four collective ops an Op represents.
type Kind int

const (
	// AllSlice decreases the tensor's size by slicing newly-sharded axes.
	AllSlice Kind = iota
	// CollectivePermute rearranges or substitutes axes without changing the
	// tensor's sharded size.
	CollectivePermute
	// AllToAll shuttles axes from one dimension to another, preserving size.
	AllToAll
	// AllGather increases the tensor's size by gathering leftover axes.
	AllGather
)

// String renders a Kind the way the original IR op names its variants.
func (k Kind) String() string {
	switch k {
	case AllSlice:
		return "all-slice"
	case CollectivePermute:
		return "collective-permute"
	case AllToAll:
		return "all-to-all"
	case AllGather:
		return "all-gather"
	default:
		return fmt.Sprintf("collective(%d)", int(k))
	}
}

// Op is one emitted collective. Only the fields relevant to Kind are
// populated: PerDimAxes for AllSlice/AllGather, SrcDim/TgtDim/Axes for
// AllToAll; CollectivePermute carries no operand-selection fields beyond its
// Result.
type Op struct {
	Kind Kind

	// PerDimAxes holds, for AllSlice and AllGather, the axes sliced or
	// gathered for each tensor dimension (may contain empty slices).
	PerDimAxes [][]axis.Ref

	// SrcDim, TgtDim, and Axes are populated only for AllToAll.
	SrcDim int
	TgtDim int
	Axes   []axis.Ref

	// Result is the sharding of the tensor after this op is applied; the
	// next op's operand is implicitly this op's result (spec §6).
	Result *sharding.Sharding
}

// String renders an Op for debugging/logging, e.g.
// "all-to-all(0->1, [y])" or "all-slice([[x],[y]])".
func (o Op) String() string {
	switch o.Kind {
	case AllToAll:
		return fmt.Sprintf("all-to-all(%d->%d, %s)", o.SrcDim, o.TgtDim, refsString(o.Axes))
	case CollectivePermute:
		return "collective-permute"
	default:
		return fmt.Sprintf("%s(%s)", o.Kind, perDimString(o.PerDimAxes))
	}
}

func refsString(refs []axis.Ref) string {
	out := "["
	for i, r := range refs {
		if i > 0 {
			out += ","
		}
		out += r.String()
	}
	return out + "]"
}

func perDimString(perDim [][]axis.Ref) string {
	out := "["
	for i, dim := range perDim {
		if i > 0 {
			out += ","
		}
		out += refsString(dim)
	}
	return out + "]"
}

// Chain is the ordered sequence of collectives a single reshard emits: at
// most one AllSlice, at most one CollectivePermute, zero or more AllToAll,
// and at most one AllGather, in that order (spec §6, §8 P5).
type Chain struct {
	Ops []Op
}

// FinalSharding returns the sharding after the last op in the chain, or nil
// if the chain is empty.
func (c *Chain) FinalSharding() *sharding.Sharding {
	if len(c.Ops) == 0 {
		return nil
	}
	return c.Ops[len(c.Ops)-1].Result
}

func (c *Chain) append(op Op) {
	c.Ops = append(c.Ops, op)
}

// Emitter is the external IR builder collaborator (spec §6): given the
// planner's computed operands it constructs each collective op against the
// host IR's own value/op representation. Recorder implements this by
// building a Chain in memory; a real compiler pass implements it against its
// own builder instead.
type Emitter interface {
	EmitAllSlice(perDimAxes [][]axis.Ref, result *sharding.Sharding)
	EmitCollectivePermute(result *sharding.Sharding)
	EmitAllToAll(srcDim, tgtDim int, axes []axis.Ref, result *sharding.Sharding)
	EmitAllGather(perDimAxes [][]axis.Ref, result *sharding.Sharding)
}

// Recorder is an Emitter that accumulates emitted ops into a Chain. It is
// the planner's default collaborator when no host IR builder is supplied.
type Recorder struct {
	chain Chain
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Chain returns the ops recorded so far.
func (r *Recorder) Chain() *Chain { return &r.chain }

func (r *Recorder) EmitAllSlice(perDimAxes [][]axis.Ref, result *sharding.Sharding) {
	r.chain.append(Op{Kind: AllSlice, PerDimAxes: perDimAxes, Result: result})
}

func (r *Recorder) EmitCollectivePermute(result *sharding.Sharding) {
	r.chain.append(Op{Kind: CollectivePermute, Result: result})
}

func (r *Recorder) EmitAllToAll(srcDim, tgtDim int, axes []axis.Ref, result *sharding.Sharding) {
	r.chain.append(Op{Kind: AllToAll, SrcDim: srcDim, TgtDim: tgtDim, Axes: axes, Result: result})
}

func (r *Recorder) EmitAllGather(perDimAxes [][]axis.Ref, result *sharding.Sharding) {
	r.chain.append(Op{Kind: AllGather, PerDimAxes: perDimAxes, Result: result})
}
