package slub

import "unsafe"

// State is a slab's position in its cache's three-list state machine.
type State uint8

const (
	StateEmpty State = iota
	StatePartial
	StateFull
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePartial:
		return "partial"
	case StateFull:
		return "full"
	default:
		return "unknown"
	}
}

// SlabHeader sits at the base of every slab. It carries the intrusive list
// link for whichever of the owning cache's three lists it currently lives
// in, the freelist head, and the bookkeeping needed to recover the owning
// cache from a bare user pointer.
//
// The header coexists with raw slot memory in the same page-aligned region:
// everything from align.Up(base+sizeof(SlabHeader), objAlign) to base+slabBytes
// is either a free slot's freelist link or live user bytes, never both at
// once (gated by inuse/freelist membership, never aliased).
type SlabHeader struct {
	link     slabListNode
	freelist uintptr // address of the first free slot, or 0 if none
	inuse    uint32
	total    uint32
	state    State
	cache    *SlubCache
	base     uintptr
}

// headerAt reinterprets a slab-aligned base address as its header.
func headerAt(base uintptr) *SlabHeader {
	return (*SlabHeader)(unsafe.Pointer(base))
}

// slabBase recovers a slab's base address from any pointer inside it.
func slabBase(ptr, slabBytes uintptr) uintptr {
	return ptr &^ (slabBytes - 1)
}

// newSlab initializes a freshly obtained page-aligned region as a slab for
// cache c: it threads every object slot that fits after the header (padded
// up to the class's alignment) into a forward singly-linked freelist.
func newSlab(base uintptr, c *SlubCache) *SlabHeader {
	h := headerAt(base)
	*h = SlabHeader{cache: c, base: base, state: StateEmpty}
	h.link.Owner = h

	headerEnd := base + unsafe.Sizeof(SlabHeader{})
	firstSlot := alignUp(headerEnd, c.objAlign)
	slabEnd := base + c.slabBytes

	var head, tail uintptr
	var total uint32
	for slot := firstSlot; slot+c.objSize <= slabEnd; slot += c.objSize {
		writeNext(slot, 0)
		if head == 0 {
			head = slot
		} else {
			writeNext(tail, slot)
		}
		tail = slot
		total++
	}

	h.freelist = head
	h.total = total
	return h
}

func readNext(ptr uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(ptr))
}

func writeNext(ptr, next uintptr) {
	*(*uintptr)(unsafe.Pointer(ptr)) = next
}
