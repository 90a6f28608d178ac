package axis

import "sort"

// FirstOverlapping returns the index of the first ref in ordered (sorted
// under Compare) that overlaps a, and false if none does.
//
// Grounded in the lower-bound + predecessor-check shape used by
// MetaCubeX-bart's overlap lookups (overlaps.go, base_index.go): since
// Compare is a strict total order consistent with window layout, any ref
// overlapping a must sit immediately before or after a's lower-bound
// position.
//
// Proof sketch (spec §4.2, §9): let afterIt be the first ref not less than
// a. Every entry strictly before beforeIt := afterIt-1 is also strictly
// less than beforeIt, so it cannot overlap a without beforeIt overlapping a
// too — isolating beforeIt as the only candidate on the low side. Every
// entry strictly after afterIt is greater than afterIt, so if it overlapped
// a, afterIt would have to overlap a as well — isolating afterIt as the
// only candidate on the high side. Hence checking only beforeIt and afterIt
// suffices.
func FirstOverlapping(a Ref, ordered []Ref) (int, bool) {
	if len(ordered) == 0 {
		return 0, false
	}
	afterIdx := sort.Search(len(ordered), func(i int) bool {
		return Compare(ordered[i], a) >= 0
	})
	if afterIdx > 0 && ordered[afterIdx-1].Overlaps(a) {
		return afterIdx - 1, true
	}
	if afterIdx < len(ordered) && ordered[afterIdx].Overlaps(a) {
		return afterIdx, true
	}
	return 0, false
}

// Sorted returns a sorted copy of refs under Compare.
func Sorted(refs []Ref) []Ref {
	out := append([]Ref(nil), refs...)
	sort.Slice(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}
