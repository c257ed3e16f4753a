package slub

import (
	"unsafe"

	"github.com/nmxmxh/slub-allocator/internal/errs"
	"github.com/nmxmxh/slub-allocator/internal/telemetry"
	"github.com/nmxmxh/slub-allocator/list"
	"github.com/nmxmxh/slub-allocator/page"
)

// slabListNode is the intrusive link type every slab header embeds; it is
// named here rather than spelled out at each use so the three per-cache
// lists and the header's embedded field line up.
type slabListNode = list.Node[SlabHeader]

// SlubCache owns every slab for one fixed (objSize, objAlign) class and
// walks them through empty → partial → full. It takes no lock: the engine
// is single-threaded by design (a concurrent variant would put one mutex
// here, guarding all three lists and the bookkeeping below, per-cache).
type SlubCache struct {
	objSize      uintptr
	objAlign     uintptr
	slabBytes    uintptr
	pagesPerSlab int

	empty, partial, full *list.List[SlabHeader]

	provider page.Provider
	logger   *telemetry.Logger
}

func newSlubCache(provider page.Provider, rawObjSize, rawObjAlign uintptr, pagesPerSlab int, logger *telemetry.Logger) (*SlubCache, error) {
	const ptrSize = unsafe.Sizeof(uintptr(0))

	objAlign := rawObjAlign
	if objAlign < ptrSize {
		objAlign = ptrSize
	}
	objAlign = roundUpPow2(objAlign)

	objSize := rawObjSize
	if objSize < ptrSize {
		objSize = ptrSize
	}
	objSize = alignUp(objSize, objAlign)

	slabBytes := uintptr(pagesPerSlab) * page.PageSize
	if pagesPerSlab <= 0 || slabBytes&(slabBytes-1) != 0 {
		return nil, errs.New("slub: pages_per_slab must yield a power-of-two slab size")
	}

	return &SlubCache{
		objSize:      objSize,
		objAlign:     objAlign,
		slabBytes:    slabBytes,
		pagesPerSlab: pagesPerSlab,
		empty:        list.New[SlabHeader](),
		partial:      list.New[SlabHeader](),
		full:         list.New[SlabHeader](),
		provider:     provider,
		logger:       logger,
	}, nil
}

// Alloc serves one object: the most recently touched partial slab first,
// then the most recently emptied slab, and only then a fresh slab from the
// page provider. It never mutates cache state on OOM.
func (c *SlubCache) Alloc() (uintptr, error) {
	h := c.partial.Back()
	if h == nil {
		if eh := c.empty.Back(); eh != nil {
			c.empty.Erase(&eh.link)
			eh.state = StatePartial
			c.partial.PushBack(&eh.link)
			h = eh
		} else {
			base, err := c.provider.AllocPages(c.pagesPerSlab)
			if err != nil {
				return 0, err
			}
			nh := newSlab(base, c)
			nh.state = StatePartial
			c.partial.PushBack(&nh.link)
			h = nh
		}
	}

	if h.freelist == 0 {
		return 0, errs.New("slub: invariant violation: partial slab has an empty freelist")
	}

	ptr := h.freelist
	h.freelist = readNext(ptr)
	h.inuse++

	if h.inuse == h.total {
		c.partial.Erase(&h.link)
		h.state = StateFull
		c.full.PushBack(&h.link)
	}

	if Debug {
		assertf(h.inuse+uint32(freelistLen(h.freelist)) == h.total, "inuse + freelist length != total")
	}
	return ptr, nil
}

// Free returns ptr — which must be a live pointer this cache previously
// returned from Alloc — to its slab's freelist, prepending it (LIFO: the
// next Alloc on this slab serves the slot just freed) and moving the slab
// between lists as its occupancy crosses a boundary.
func (c *SlubCache) Free(ptr uintptr) error {
	if ptr == 0 {
		if c.logger != nil {
			c.logger.Warn("slub: free(nil) is a no-op")
		}
		return nil
	}

	base := slabBase(ptr, c.slabBytes)
	h := headerAt(base)
	if h.cache != c {
		return errs.New("slub: pointer does not belong to this cache")
	}

	switch h.state {
	case StateFull:
		c.full.Erase(&h.link)
	case StatePartial:
		c.partial.Erase(&h.link)
	case StateEmpty:
		// Every object slot in an EMPTY slab is already free; a pointer
		// resolving here was never live. This only catches the
		// whole-slab-empty case — double-freeing within a still-partial
		// slab is undetected, as the baseline's contract allows (double
		// free is documented as out of scope).
		return errs.New("slub: double free or foreign free detected")
	}

	writeNext(ptr, h.freelist)
	h.freelist = ptr
	h.inuse--

	if h.inuse == 0 {
		h.state = StateEmpty
		c.empty.PushBack(&h.link)
	} else {
		h.state = StatePartial
		c.partial.PushBack(&h.link)
	}

	if Debug {
		assertf(h.inuse+uint32(freelistLen(h.freelist)) == h.total, "inuse + freelist length != total")
	}
	return nil
}

func freelistLen(head uintptr) int {
	n := 0
	for head != 0 {
		n++
		head = readNext(head)
	}
	return n
}

// CacheStats is a point-in-time snapshot of one size class's slab counts
// and object occupancy.
type CacheStats struct {
	ObjectSize   uintptr
	ObjectAlign  uintptr
	EmptySlabs   int
	PartialSlabs int
	FullSlabs    int
	ObjectsTotal uint64
	ObjectsInUse uint64
}

// Stats aggregates this cache's three lists into a CacheStats snapshot.
func (c *SlubCache) Stats() CacheStats {
	var total, inuse uint64
	tally := func(l *list.List[SlabHeader]) {
		l.ForEach(func(h *SlabHeader) {
			total += uint64(h.total)
			inuse += uint64(h.inuse)
		})
	}
	tally(c.empty)
	tally(c.partial)
	tally(c.full)

	return CacheStats{
		ObjectSize:   c.objSize,
		ObjectAlign:  c.objAlign,
		EmptySlabs:   c.empty.Len(),
		PartialSlabs: c.partial.Len(),
		FullSlabs:    c.full.Len(),
		ObjectsTotal: total,
		ObjectsInUse: inuse,
	}
}
