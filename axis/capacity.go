package axis

// WithinCapacity is the result of fitting an axis ref into a size-limited
// capacity: Within is the leading portion of the ref of size SizeWithin,
// and Remainder is what's left over (nil — represented by HasRemainder == false —
// if the whole ref already fit).
type WithinCapacity struct {
	Within       Ref
	Remainder    Ref
	HasRemainder bool
	SizeWithin   int64
}

// SplitWithinCapacity fits a into capacity, splitting it into a leading
// Within window (of size min(capacity, a.Size)) and a trailing Remainder
// when a.Size exceeds capacity.
//
// This assumes capacity divides a.Size (spec §9's known limitation: the
// planner assumes capacity and axis size are mutually divisible, which
// holds for power-of-two meshes; non-divisible inputs are not corrected
// here, matching the original's TODO(b/394264845) rather than papering over
// it with a heuristic).
func SplitWithinCapacity(a Ref, capacity int64) WithinCapacity {
	if capacity >= a.Size {
		return WithinCapacity{Within: a, SizeWithin: a.Size}
	}
	within := Ref{Name: a.Name, PreSize: a.PreSize, Size: capacity}
	remainder := Ref{Name: a.Name, PreSize: a.PreSize * capacity, Size: a.Size / capacity}
	return WithinCapacity{
		Within:       within,
		Remainder:    remainder,
		HasRemainder: true,
		SizeWithin:   capacity,
	}
}

// ShardedSize returns the product of the sizes of refs, i.e. how finely a
// dimension carrying exactly these axes is split (spec GLOSSARY).
func ShardedSize(refs []Ref) int64 {
	size := int64(1)
	for _, r := range refs {
		size *= r.Size
	}
	return size
}
