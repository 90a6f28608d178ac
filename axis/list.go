package axis

import "container/list"

// List is an ordered, doubly-linked list of Refs supporting O(1) front/back
// push and pop plus insertion or removal at a held element, without
// invalidating other elements' positions.
//
// Spec §9 calls out that inAxesPerDim/outAxesPerDim need exactly this: the
// sub-axis alignment and collective strategies hold an iterator into the
// middle of a dimension's axis list while erasing and inserting around it
// (decomposing one Ref into up to three). A plain slice would invalidate
// indices on every insert/delete; container/list (stdlib) gives the same
// guarantees the original's std::list relies on. The teacher's own
// container vocabulary (maps in core.Graph) never needed this, since graphs
// don't hold iterators across mutation — this is the one place the
// implementation reaches past the teacher's idiom into a stdlib container
// the corpus doesn't otherwise use (see DESIGN.md).
type List struct {
	l *list.List
}

// NewList builds a List from an ordered slice of Refs.
func NewList(refs ...Ref) *List {
	l := &List{l: list.New()}
	for _, r := range refs {
		l.l.PushBack(r)
	}
	return l
}

// Len returns the number of refs in the list.
func (lst *List) Len() int { return lst.l.Len() }

// Empty reports whether the list has no refs.
func (lst *List) Empty() bool { return lst.l.Len() == 0 }

// Front returns the first ref and true, or the zero Ref and false if empty.
func (lst *List) Front() (Ref, bool) {
	if e := lst.l.Front(); e != nil {
		return e.Value.(Ref), true
	}
	return Ref{}, false
}

// Back returns the last ref and true, or the zero Ref and false if empty.
func (lst *List) Back() (Ref, bool) {
	if e := lst.l.Back(); e != nil {
		return e.Value.(Ref), true
	}
	return Ref{}, false
}

// PushFront inserts r at the front of the list.
func (lst *List) PushFront(r Ref) { lst.l.PushFront(r) }

// PushBack inserts r at the back of the list.
func (lst *List) PushBack(r Ref) { lst.l.PushBack(r) }

// PopFront removes and returns the first ref, or false if the list is empty.
func (lst *List) PopFront() (Ref, bool) {
	e := lst.l.Front()
	if e == nil {
		return Ref{}, false
	}
	lst.l.Remove(e)
	return e.Value.(Ref), true
}

// PopBack removes and returns the last ref, or false if the list is empty.
func (lst *List) PopBack() (Ref, bool) {
	e := lst.l.Back()
	if e == nil {
		return Ref{}, false
	}
	lst.l.Remove(e)
	return e.Value.(Ref), true
}

// Clear removes every ref from the list.
func (lst *List) Clear() { lst.l = list.New() }

// ToSlice returns the refs in order. The returned slice is a fresh copy.
func (lst *List) ToSlice() []Ref {
	out := make([]Ref, 0, lst.l.Len())
	for e := lst.l.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(Ref))
	}
	return out
}

// Front Element accessors let callers hold a position across mutations,
// mirroring the original's std::list::iterator usage in
// alignSubAxesByDecomposition.

// FrontElement returns the first element, or nil if the list is empty.
func (lst *List) FrontElement() *list.Element { return lst.l.Front() }

// At returns the Ref stored at e.
func (lst *List) At(e *list.Element) Ref { return e.Value.(Ref) }

// Set replaces the value stored at e in place, without changing its
// position in the list.
func (lst *List) Set(e *list.Element, r Ref) { e.Value = r }

// InsertBefore inserts r immediately before mark and returns its element. A
// nil mark means "the position past the last element" (mirroring
// std::list::end(), which the original's axes.insert(axisIt, ...) targets
// when Erase/advancing walked off the back of the list), so r is appended.
func (lst *List) InsertBefore(r Ref, mark *list.Element) *list.Element {
	if mark == nil {
		return lst.l.PushBack(r)
	}
	return lst.l.InsertBefore(r, mark)
}

// InsertAfter inserts r immediately after mark and returns its element. A
// nil mark means "the position before the first element", so r is prepended.
func (lst *List) InsertAfter(r Ref, mark *list.Element) *list.Element {
	if mark == nil {
		return lst.l.PushFront(r)
	}
	return lst.l.InsertAfter(r, mark)
}

// Erase removes e from the list and returns the element that followed it
// (or nil if e was last), matching std::list::erase's return value so
// callers can continue iterating from the result.
func (lst *List) Erase(e *list.Element) *list.Element {
	next := e.Next()
	lst.l.Remove(e)
	return next
}
