package planner_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/sdycore/reshard/axis"
	"github.com/sdycore/reshard/collective"
	"github.com/sdycore/reshard/mesh"
	"github.com/sdycore/reshard/planner"
	"github.com/sdycore/reshard/sharding"
)

// requireSameDims fails the test with a structural diff of the per-dimension
// axis layout if got and want disagree — *sharding.Sharding itself is not
// cmp-comparable (mesh.Mesh carries unexported fields), so the comparison is
// scoped to the exported axis layout, which is what a reshard mismatch
// actually needs explained.
func requireSameDims(t *testing.T, want, got *sharding.Sharding) {
	if diff := cmp.Diff(want.DimAxes, got.DimAxes); diff != "" {
		t.Errorf("sharding mismatch (-want +got):\n%s", diff)
	}
}

// PlannerSuite exercises the driver against the named scenarios of
// spec.md §8 plus its universal properties P1, P2 and P5 (P3 and P4 are
// tested in the align and axis packages).
type PlannerSuite struct {
	suite.Suite
	m4 *mesh.Mesh // x:2, y:2, z:2, w:2
}

func (s *PlannerSuite) SetupTest() {
	m, err := mesh.New("M", []mesh.Axis{
		{Name: "x", Size: 2}, {Name: "y", Size: 2}, {Name: "z", Size: 2}, {Name: "w", Size: 2},
	})
	require.NoError(s.T(), err)
	s.m4 = m
}

func (s *PlannerSuite) newSharding(dims [][]axis.Ref) *sharding.Sharding {
	sh, err := sharding.New(s.m4, dims)
	require.NoError(s.T(), err)
	return sh
}

func (s *PlannerSuite) TestScenario1PureGather() {
	in := s.newSharding([][]axis.Ref{{axis.Whole("x", 2), axis.Whole("y", 2)}, {}})
	out := s.newSharding([][]axis.Ref{{}, {}})

	chain, err := planner.Plan(in, out)
	require.NoError(s.T(), err)
	require.Len(s.T(), chain.Ops, 1)
	require.Equal(s.T(), collective.AllGather, chain.Ops[0].Kind)
	require.True(s.T(), chain.Ops[0].Result.Equal(out))
}

func (s *PlannerSuite) TestScenario2PureSlice() {
	in := s.newSharding([][]axis.Ref{{}, {}})
	out := s.newSharding([][]axis.Ref{{axis.Whole("x", 2)}, {axis.Whole("y", 2)}})

	chain, err := planner.Plan(in, out)
	require.NoError(s.T(), err)
	require.Len(s.T(), chain.Ops, 1)
	require.Equal(s.T(), collective.AllSlice, chain.Ops[0].Kind)
	require.True(s.T(), chain.Ops[0].Result.Equal(out))
}

func (s *PlannerSuite) TestScenario3AllToAll() {
	in := s.newSharding([][]axis.Ref{{axis.Whole("x", 2), axis.Whole("y", 2)}, {}})
	out := s.newSharding([][]axis.Ref{{axis.Whole("x", 2)}, {axis.Whole("y", 2)}})

	chain, err := planner.Plan(in, out)
	require.NoError(s.T(), err)
	require.Len(s.T(), chain.Ops, 1)
	op := chain.Ops[0]
	require.Equal(s.T(), collective.AllToAll, op.Kind)
	require.Equal(s.T(), 0, op.SrcDim)
	require.Equal(s.T(), 1, op.TgtDim)
	require.Len(s.T(), op.Axes, 1)
	require.True(s.T(), op.Axes[0].Equal(axis.Whole("y", 2)))
	require.True(s.T(), op.Result.Equal(out))
}

func (s *PlannerSuite) TestScenario4PermuteThenGather() {
	in := s.newSharding([][]axis.Ref{{axis.Whole("x", 2)}, {axis.Whole("y", 2)}})
	out := s.newSharding([][]axis.Ref{{axis.Whole("y", 2)}, {}})

	chain, err := planner.Plan(in, out)
	require.NoError(s.T(), err)
	require.Len(s.T(), chain.Ops, 2)
	require.Equal(s.T(), collective.CollectivePermute, chain.Ops[0].Kind)
	require.Equal(s.T(), collective.AllGather, chain.Ops[1].Kind)
	require.True(s.T(), chain.Ops[1].Result.Equal(out))
}

func (s *PlannerSuite) TestScenario5SubAxisSplitUnderCapacity() {
	m, err := mesh.New("A", []mesh.Axis{{Name: "a", Size: 8}})
	require.NoError(s.T(), err)
	in, err := sharding.New(m, [][]axis.Ref{{}})
	require.NoError(s.T(), err)
	out, err := sharding.New(m, [][]axis.Ref{{axis.Sub("a", 1, 4)}})
	require.NoError(s.T(), err)

	chain, err := planner.Plan(in, out)
	require.NoError(s.T(), err)
	require.Len(s.T(), chain.Ops, 1)
	require.Equal(s.T(), collective.AllSlice, chain.Ops[0].Kind)
	require.True(s.T(), chain.Ops[0].Result.Equal(out))
}

func (s *PlannerSuite) TestScenario6DecompositionAlignment() {
	m, err := mesh.New("A", []mesh.Axis{{Name: "a", Size: 16}})
	require.NoError(s.T(), err)
	in, err := sharding.New(m, [][]axis.Ref{{axis.Sub("a", 1, 8)}})
	require.NoError(s.T(), err)
	out, err := sharding.New(m, [][]axis.Ref{{axis.Sub("a", 4, 4)}})
	require.NoError(s.T(), err)

	chain, err := planner.Plan(in, out)
	require.NoError(s.T(), err)
	require.True(s.T(), chain.FinalSharding().Equal(out))
}

// TestP2IdenticalShardingsEmitNoCollectives checks spec §8 P2.
func (s *PlannerSuite) TestP2IdenticalShardingsEmitNoCollectives() {
	sh := s.newSharding([][]axis.Ref{{axis.Whole("x", 2)}, {axis.Whole("y", 2)}})
	chain, err := planner.Plan(sh, sh.Clone())
	require.NoError(s.T(), err)
	require.Empty(s.T(), chain.Ops)
}

// TestP5ChainLengthBound checks spec §8 P5: at most 3 + rank collectives.
func (s *PlannerSuite) TestP5ChainLengthBound() {
	cases := [][2][][]axis.Ref{
		{
			{{axis.Whole("x", 2), axis.Whole("y", 2)}, {}},
			{{}, {}},
		},
		{
			{{}, {}},
			{{axis.Whole("x", 2)}, {axis.Whole("y", 2)}},
		},
		{
			{{axis.Whole("x", 2)}, {axis.Whole("y", 2)}},
			{{axis.Whole("y", 2)}, {}},
		},
	}
	for _, c := range cases {
		in := s.newSharding(c[0])
		out := s.newSharding(c[1])
		chain, err := planner.Plan(in, out)
		require.NoError(s.T(), err)
		require.LessOrEqual(s.T(), len(chain.Ops), 3+in.Rank())
	}
}

// TestP1AndRoundTripReplay checks spec §8 P1 and the round-trip property:
// planning forward then backward, each independently replayed, reaches the
// expected sharding.
func (s *PlannerSuite) TestP1AndRoundTripReplay() {
	in := s.newSharding([][]axis.Ref{{axis.Whole("x", 2), axis.Whole("y", 2)}, {}})
	out := s.newSharding([][]axis.Ref{{axis.Whole("x", 2)}, {axis.Whole("y", 2)}})

	forward, err := planner.Plan(in, out)
	require.NoError(s.T(), err)
	got, err := planner.Replay(in, forward, out)
	require.NoError(s.T(), err)
	requireSameDims(s.T(), out, got)

	backward, err := planner.Plan(out, in)
	require.NoError(s.T(), err)
	got, err = planner.Replay(out, backward, in)
	require.NoError(s.T(), err)
	requireSameDims(s.T(), in, got)
}

func TestPlannerSuite(t *testing.T) {
	suite.Run(t, new(PlannerSuite))
}
