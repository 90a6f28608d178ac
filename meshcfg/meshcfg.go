// Package meshcfg loads a device mesh and an input/output sharding pair from
// a YAML document, the on-disk format cmd/reshardplan and golden-file tests
// use to describe a reshard. It mirrors the builder package's validated
// functional-constructor pattern (builder.BuildGraph/newBuilderConfig):
// decode into a plain data struct, then validate and assemble into the real
// domain types (mesh.Mesh, sharding.Sharding) in one pass, returning a
// sentinel error instead of panicking on malformed input.
package meshcfg

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sdycore/reshard/axis"
	"github.com/sdycore/reshard/mesh"
	"github.com/sdycore/reshard/sharding"
)

// Sentinel errors for config loading.
var (
	// ErrEmptyDocument indicates the YAML document had no mesh defined.
	ErrEmptyDocument = errors.New("meshcfg: document has no mesh")

	// ErrMissingShardings indicates a document asked to build a Case but
	// omitted either the "in" or "out" sharding.
	ErrMissingShardings = errors.New("meshcfg: case requires both in and out shardings")
)

// AxisRef is the YAML wire shape for axis.Ref: Name is required; PreSize
// defaults to 1 and Size defaults to "the rest of the named mesh axis" (full
// axis size / PreSize) when omitted, so a bare {name: x} denotes the whole
// axis the way spec §3's AxisRef does.
type AxisRef struct {
	Name    string `yaml:"name"`
	PreSize int64  `yaml:"preSize"`
	Size    int64  `yaml:"size"`
}

func (r AxisRef) toRef(m *mesh.Mesh) axis.Ref {
	preSize := r.PreSize
	if preSize == 0 {
		preSize = 1
	}
	size := r.Size
	if size == 0 {
		if full, err := m.AxisSize(r.Name); err == nil && preSize != 0 {
			size = full / preSize
		}
	}
	return axis.Sub(r.Name, preSize, size)
}

// MeshAxis is the YAML wire shape for mesh.Axis.
type MeshAxis struct {
	Name string `yaml:"name"`
	Size int64  `yaml:"size"`
}

// ShardingDoc is the YAML wire shape for a sharding.Sharding: one axis list
// per tensor dimension, plus an optional replicated-axes list.
type ShardingDoc struct {
	Dims       [][]AxisRef `yaml:"dims"`
	Replicated []AxisRef   `yaml:"replicated"`
}

// Document is the top-level YAML shape: a mesh plus an optional named pair
// of shardings to reshard between.
type Document struct {
	Mesh MeshDoc      `yaml:"mesh"`
	In   *ShardingDoc `yaml:"in"`
	Out  *ShardingDoc `yaml:"out"`
}

// MeshDoc is the YAML wire shape for mesh.New's arguments.
type MeshDoc struct {
	Name string     `yaml:"name"`
	Axes []MeshAxis `yaml:"axes"`
}

// Case is the assembled, validated result of loading a Document that
// declares both an "in" and an "out" sharding.
type Case struct {
	Mesh *mesh.Mesh
	In   *sharding.Sharding
	Out  *sharding.Sharding
}

// ParseMesh decodes a YAML document and builds just its Mesh, ignoring any
// in/out shardings it declares.
func ParseMesh(data []byte) (*mesh.Mesh, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("meshcfg: decode: %w", err)
	}
	return buildMesh(doc.Mesh)
}

// ParseCase decodes a YAML document into a Case: a Mesh plus its validated
// "in" and "out" shardings. Returns ErrEmptyDocument or ErrMissingShardings
// on a malformed document, or any error mesh.New/sharding.New return.
func ParseCase(data []byte) (*Case, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("meshcfg: decode: %w", err)
	}

	m, err := buildMesh(doc.Mesh)
	if err != nil {
		return nil, err
	}

	if doc.In == nil || doc.Out == nil {
		return nil, ErrMissingShardings
	}

	in, err := buildSharding(m, doc.In)
	if err != nil {
		return nil, fmt.Errorf("meshcfg: in sharding: %w", err)
	}
	out, err := buildSharding(m, doc.Out)
	if err != nil {
		return nil, fmt.Errorf("meshcfg: out sharding: %w", err)
	}

	return &Case{Mesh: m, In: in, Out: out}, nil
}

func buildMesh(doc MeshDoc) (*mesh.Mesh, error) {
	if len(doc.Axes) == 0 {
		return nil, ErrEmptyDocument
	}
	axes := make([]mesh.Axis, len(doc.Axes))
	for i, a := range doc.Axes {
		axes[i] = mesh.Axis{Name: a.Name, Size: a.Size}
	}
	return mesh.New(doc.Name, axes)
}

func buildSharding(m *mesh.Mesh, doc *ShardingDoc) (*sharding.Sharding, error) {
	dims := make([][]axis.Ref, len(doc.Dims))
	for d, refs := range doc.Dims {
		dims[d] = make([]axis.Ref, len(refs))
		for i, r := range refs {
			dims[d][i] = r.toRef(m)
		}
	}
	replicated := make([]axis.Ref, len(doc.Replicated))
	for i, r := range doc.Replicated {
		replicated[i] = r.toRef(m)
	}
	return sharding.New(m, dims, replicated...)
}
