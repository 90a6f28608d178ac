package axis

// AddOrMerge appends a to list, merging it into the back element first when
// the two are contiguous windows of the same axis (spec §4.7): the back's
// window ends exactly where a's begins. This keeps emitted axis lists
// canonical, which matters for the idempotency property (spec §8, P4) and
// for keeping collective operand lists minimal.
func AddOrMerge(list []Ref, a Ref) []Ref {
	if n := len(list); n > 0 {
		back := list[n-1]
		if back.Name == a.Name && back.end() == a.start() {
			list[n-1] = Ref{Name: back.Name, PreSize: back.PreSize, Size: back.Size * a.Size}
			return list
		}
	}
	return append(list, a)
}
