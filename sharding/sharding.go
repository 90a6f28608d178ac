// Package sharding implements the Sharding data model of spec.md §3: a
// per-tensor-dimension ordered list of axis refs, tied to the mesh those refs
// are drawn from.
package sharding

import (
	"errors"
	"fmt"

	"github.com/sdycore/reshard/axis"
	"github.com/sdycore/reshard/mesh"
)

// Sentinel errors, in the style of the teacher's builder/errors.go.
var (
	ErrRankMismatch       = errors.New("sharding: rank mismatch between shardings")
	ErrMeshMismatch       = errors.New("sharding: shardings reference different meshes")
	ErrUnknownAxis        = errors.New("sharding: axis references an unknown mesh axis")
	ErrSubAxisOutOfBounds = errors.New("sharding: sub-axis window exceeds the full axis size")
)

// Sharding is a per-dimension ordered list of axis.Refs (outermost first)
// plus the mesh those refs are defined over (spec §3). ReplicatedAxes are
// carried for interface fidelity with the external TensorSharding shape
// (spec §6) but are ignored by the planner.
type Sharding struct {
	M              *mesh.Mesh
	DimAxes        [][]axis.Ref
	ReplicatedAxes []axis.Ref
}

// New validates and constructs a Sharding. Every ref must name a known mesh
// axis and fit within its full size.
func New(m *mesh.Mesh, dimAxes [][]axis.Ref, replicated ...axis.Ref) (*Sharding, error) {
	for _, dim := range dimAxes {
		for _, r := range dim {
			if err := validateRef(m, r); err != nil {
				return nil, err
			}
		}
	}
	for _, r := range replicated {
		if err := validateRef(m, r); err != nil {
			return nil, err
		}
	}
	copied := make([][]axis.Ref, len(dimAxes))
	for i, dim := range dimAxes {
		copied[i] = append([]axis.Ref(nil), dim...)
	}
	return &Sharding{
		M:              m,
		DimAxes:        copied,
		ReplicatedAxes: append([]axis.Ref(nil), replicated...),
	}, nil
}

func validateRef(m *mesh.Mesh, r axis.Ref) error {
	full, err := m.AxisSize(r.Name)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownAxis, r.Name)
	}
	if r.PreSize*r.Size > full || r.PreSize < 1 || r.Size < 1 {
		return fmt.Errorf("%w: %s spans [%d, %d) but axis size is %d",
			ErrSubAxisOutOfBounds, r.Name, r.PreSize, r.PreSize*r.Size, full)
	}
	return nil
}

// Rank returns the tensor rank (number of dimensions) this sharding covers.
func (s *Sharding) Rank() int { return len(s.DimAxes) }

// ShardedSize returns the sharded size of dimension d: the product of its
// axes' sizes (spec GLOSSARY).
func (s *Sharding) ShardedSize(d int) int64 {
	return axis.ShardedSize(s.DimAxes[d])
}

// TotalShardedSize returns the product of every dimension's sharded size.
func (s *Sharding) TotalShardedSize() int64 {
	total := int64(1)
	for d := range s.DimAxes {
		total *= s.ShardedSize(d)
	}
	return total
}

// CheckCompatible verifies that in and out have equal rank and reference the
// same mesh, the preflight rejection spec §7 assigns to the surrounding
// rewriter rather than the planner itself.
func CheckCompatible(in, out *Sharding) error {
	if in.Rank() != out.Rank() {
		return fmt.Errorf("%w: %d vs %d", ErrRankMismatch, in.Rank(), out.Rank())
	}
	if !in.M.SameAs(out.M) {
		return ErrMeshMismatch
	}
	return nil
}

// Equal reports whether s and other have identical per-dimension axis lists
// over the same mesh. Used by planner tests to check each scenario's
// resulting sharding and by Replay to check a chain reaches the target.
func (s *Sharding) Equal(other *Sharding) bool {
	if other == nil || !s.M.SameAs(other.M) || s.Rank() != other.Rank() {
		return false
	}
	for d := range s.DimAxes {
		if len(s.DimAxes[d]) != len(other.DimAxes[d]) {
			return false
		}
		for i := range s.DimAxes[d] {
			if !s.DimAxes[d][i].Equal(other.DimAxes[d][i]) {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of s's per-dimension axis lists.
func (s *Sharding) Clone() *Sharding {
	dims := make([][]axis.Ref, len(s.DimAxes))
	for d, dim := range s.DimAxes {
		dims[d] = append([]axis.Ref(nil), dim...)
	}
	return &Sharding{
		M:              s.M,
		DimAxes:        dims,
		ReplicatedAxes: append([]axis.Ref(nil), s.ReplicatedAxes...),
	}
}

// String renders a Sharding the way the original IR prints a TensorSharding
// attribute: "[[x,y],[z]]".
func (s *Sharding) String() string {
	out := "["
	for d, dim := range s.DimAxes {
		if d > 0 {
			out += ","
		}
		out += "["
		for i, r := range dim {
			if i > 0 {
				out += ","
			}
			out += r.String()
		}
		out += "]"
	}
	return out + "]"
}
