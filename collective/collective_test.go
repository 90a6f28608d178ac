package collective_test

import (
	"testing"

	"github.com/sdycore/reshard/axis"
	"github.com/sdycore/reshard/collective"
	"github.com/sdycore/reshard/mesh"
	"github.com/sdycore/reshard/sharding"
)

func testSharding(t *testing.T) *sharding.Sharding {
	t.Helper()
	m, err := mesh.New("M", []mesh.Axis{{Name: "x", Size: 2}, {Name: "y", Size: 2}})
	if err != nil {
		t.Fatalf("mesh.New: %v", err)
	}
	sh, err := sharding.New(m, [][]axis.Ref{{axis.Whole("x", 2)}, {}})
	if err != nil {
		t.Fatalf("sharding.New: %v", err)
	}
	return sh
}

func TestKindString(t *testing.T) {
	cases := map[collective.Kind]string{
		collective.AllSlice:          "all-slice",
		collective.CollectivePermute: "collective-permute",
		collective.AllToAll:          "all-to-all",
		collective.AllGather:         "all-gather",
		collective.Kind(99):          "collective(99)",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}

func TestOpString(t *testing.T) {
	res := testSharding(t)
	a2a := collective.Op{Kind: collective.AllToAll, SrcDim: 0, TgtDim: 1, Axes: []axis.Ref{axis.Whole("y", 2)}, Result: res}
	if got, want := a2a.String(), "all-to-all(0->1, [y])"; got != want {
		t.Errorf("all-to-all String() = %q, want %q", got, want)
	}

	perm := collective.Op{Kind: collective.CollectivePermute, Result: res}
	if got, want := perm.String(), "collective-permute"; got != want {
		t.Errorf("permute String() = %q, want %q", got, want)
	}

	slice := collective.Op{Kind: collective.AllSlice, PerDimAxes: [][]axis.Ref{{axis.Whole("x", 2)}, nil}, Result: res}
	if got, want := slice.String(), "all-slice([[x],[]])"; got != want {
		t.Errorf("all-slice String() = %q, want %q", got, want)
	}
}

func TestChainFinalSharding(t *testing.T) {
	chain := &collective.Chain{}
	if chain.FinalSharding() != nil {
		t.Fatalf("empty chain should have nil FinalSharding")
	}

	res := testSharding(t)
	rec := collective.NewRecorder()
	rec.EmitAllGather([][]axis.Ref{nil, nil}, res)
	if got := rec.Chain().FinalSharding(); !got.Equal(res) {
		t.Fatalf("FinalSharding() = %v, want %v", got, res)
	}
}

func TestRecorderRecordsEachKind(t *testing.T) {
	res := testSharding(t)
	rec := collective.NewRecorder()

	rec.EmitAllSlice([][]axis.Ref{{axis.Whole("x", 2)}, nil}, res)
	rec.EmitCollectivePermute(res)
	rec.EmitAllToAll(0, 1, []axis.Ref{axis.Whole("y", 2)}, res)
	rec.EmitAllGather([][]axis.Ref{nil, nil}, res)

	chain := rec.Chain()
	if len(chain.Ops) != 4 {
		t.Fatalf("len(chain.Ops) = %d, want 4", len(chain.Ops))
	}
	wantKinds := []collective.Kind{
		collective.AllSlice, collective.CollectivePermute, collective.AllToAll, collective.AllGather,
	}
	for i, k := range wantKinds {
		if chain.Ops[i].Kind != k {
			t.Errorf("chain.Ops[%d].Kind = %s, want %s", i, chain.Ops[i].Kind, k)
		}
	}
	if chain.Ops[2].SrcDim != 0 || chain.Ops[2].TgtDim != 1 {
		t.Errorf("all-to-all op has wrong dims: %+v", chain.Ops[2])
	}
}
