// Package mesh defines the named device mesh that shardings are expressed
// over: an ordered list of named axes, each with a positive integer size.
//
// A Mesh is immutable once built via New. Axis order is significant — it is
// the order axis names are looked up by and the order device IDs (if any)
// are assumed to vary fastest in.
//
// Errors:
//
//	ErrNoAxes          - a mesh was built with zero axes.
//	ErrEmptyAxisName    - an axis has an empty name.
//	ErrDuplicateAxis    - two axes share a name.
//	ErrNonPositiveSize  - an axis size is <= 0.
//	ErrDeviceCountMismatch - len(deviceIDs) != product of axis sizes.
package mesh

import (
	"errors"
	"fmt"
)

// Sentinel errors for mesh construction.
var (
	// ErrNoAxes indicates New was called with no axes.
	ErrNoAxes = errors.New("mesh: at least one axis is required")

	// ErrEmptyAxisName indicates an axis was declared with an empty name.
	ErrEmptyAxisName = errors.New("mesh: axis name is empty")

	// ErrDuplicateAxis indicates two axes share the same name.
	ErrDuplicateAxis = errors.New("mesh: duplicate axis name")

	// ErrNonPositiveSize indicates an axis size is zero or negative.
	ErrNonPositiveSize = errors.New("mesh: axis size must be positive")

	// ErrDeviceCountMismatch indicates the explicit device ID list does not
	// match the product of axis sizes.
	ErrDeviceCountMismatch = errors.New("mesh: device ID count does not match mesh size")

	// ErrAxisNotFound indicates a lookup referenced a name not in the mesh.
	ErrAxisNotFound = errors.New("mesh: axis not found")
)

// Axis is a single named dimension of a device mesh with a positive size.
//
// In the fully-supported case (spec §3), Size is a power of two, so any two
// axis sizes are divisible by their minimum; Mesh does not enforce this, it
// is a property the planner package relies on for full-capacity splitting,
// and documents as a known limitation when violated (see planner/state.go).
type Axis struct {
	// Name uniquely identifies this axis within its Mesh.
	Name string

	// Size is the number of devices along this axis; must be positive.
	Size int64
}

// Mesh is a named, ordered list of axes, optionally paired with an explicit
// device ID assignment. It is the shared coordinate system that an input and
// an output Sharding (see package sharding) must both refer to before the
// planner can synthesize a reshard.
type Mesh struct {
	name      string
	axes      []Axis
	indexOf   map[string]int
	deviceIDs []int64 // optional; nil if not specified
}

// Option configures a Mesh before construction.
type Option func(*config)

type config struct {
	deviceIDs []int64
}

// WithDeviceIDs attaches an explicit device ID assignment to the mesh. The
// length must equal the product of all axis sizes; New returns
// ErrDeviceCountMismatch otherwise.
func WithDeviceIDs(ids []int64) Option {
	return func(c *config) { c.deviceIDs = ids }
}

// New builds a Mesh from an ordered list of axes. Axis order is significant
// and preserved. Returns ErrNoAxes, ErrEmptyAxisName, ErrDuplicateAxis,
// ErrNonPositiveSize, or ErrDeviceCountMismatch on invalid input.
func New(name string, axes []Axis, opts ...Option) (*Mesh, error) {
	if len(axes) == 0 {
		return nil, ErrNoAxes
	}

	var c config
	for _, opt := range opts {
		opt(&c)
	}

	indexOf := make(map[string]int, len(axes))
	size := int64(1)
	for i, a := range axes {
		if a.Name == "" {
			return nil, ErrEmptyAxisName
		}
		if a.Size <= 0 {
			return nil, fmt.Errorf("%w: axis %q has size %d", ErrNonPositiveSize, a.Name, a.Size)
		}
		if _, dup := indexOf[a.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateAxis, a.Name)
		}
		indexOf[a.Name] = i
		size *= a.Size
	}

	if c.deviceIDs != nil && int64(len(c.deviceIDs)) != size {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrDeviceCountMismatch, len(c.deviceIDs), size)
	}

	return &Mesh{
		name:      name,
		axes:      append([]Axis(nil), axes...),
		indexOf:   indexOf,
		deviceIDs: c.deviceIDs,
	}, nil
}

// Name returns the mesh's name.
func (m *Mesh) Name() string { return m.name }

// Axes returns the ordered list of axes. The returned slice must not be
// mutated by the caller.
func (m *Mesh) Axes() []Axis { return m.axes }

// AxisSize returns the size of the named axis, or ErrAxisNotFound.
func (m *Mesh) AxisSize(name string) (int64, error) {
	i, ok := m.indexOf[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrAxisNotFound, name)
	}
	return m.axes[i].Size, nil
}

// DeviceIDs returns the explicit device ID assignment, or nil if the mesh
// was built without one (implying the canonical row-major iota assignment).
func (m *Mesh) DeviceIDs() []int64 { return m.deviceIDs }

// SameAs reports whether two meshes have the same name, which is the only
// compatibility check the planner performs between an input and an output
// sharding's mesh reference (spec §4.1 precondition).
func (m *Mesh) SameAs(other *Mesh) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.name == other.name
}
