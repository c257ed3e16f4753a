// Package list is the intrusive doubly-linked list collaborator the core
// depends on: a list whose nodes live inside the values they link (a slab's
// header, here) rather than being separately allocated, so that linking and
// unlinking a slab never triggers a recursive call back into the allocator.
//
// The shape follows the central free-list pattern this lineage of code uses
// for spans (see the mspan/mSpanList family: a circular, sentinel-rooted
// list with O(1) insert-at-back and O(1) erase-given-node), generalized
// with a type parameter so the same implementation backs every list the
// slab engine needs instead of being duplicated per node type.
package list

// Node is the intrusive link embedded by value in T. Owner must be set to
// the enclosing *T immediately after the embedding value is constructed;
// List never allocates one on the caller's behalf.
type Node[T any] struct {
	prev, next *Node[T]
	Owner      *T
}

// Linked reports whether n is currently part of some List.
func (n *Node[T]) Linked() bool {
	return n.next != nil
}

// List is a sentinel-rooted circular doubly-linked list of *T values whose
// Node members have been embedded and owned per the Node doc. The zero
// value is not usable; construct with New.
type List[T any] struct {
	root Node[T]
	len  int
}

// New returns an empty List.
func New[T any]() *List[T] {
	l := &List[T]{}
	l.root.next = &l.root
	l.root.prev = &l.root
	return l
}

// Empty reports whether the list holds no elements.
func (l *List[T]) Empty() bool {
	return l.root.next == &l.root
}

// Len returns the number of elements currently linked.
func (l *List[T]) Len() int {
	return l.len
}

// Back returns the most recently pushed element, or nil if the list is
// empty.
func (l *List[T]) Back() *T {
	if l.Empty() {
		return nil
	}
	return l.root.prev.Owner
}

// PushBack links n at the tail of the list. n must not already be linked
// into any list.
func (l *List[T]) PushBack(n *Node[T]) {
	n.prev = l.root.prev
	n.next = &l.root
	l.root.prev.next = n
	l.root.prev = n
	l.len++
}

// Erase unlinks n from this list. Erasing a node that is not currently
// linked into this list is undefined behavior — callers are responsible for
// knowing which list a node lives in (the core enforces this via each
// slab's state tag).
func (l *List[T]) Erase(n *Node[T]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev = nil
	n.next = nil
	l.len--
}

// ForEach visits every element in insertion order. fn must not mutate the
// list it is iterating.
func (l *List[T]) ForEach(fn func(*T)) {
	for n := l.root.next; n != &l.root; n = n.next {
		fn(n.Owner)
	}
}
