package slub

import (
	"github.com/nmxmxh/slub-allocator/internal/errs"
	"github.com/nmxmxh/slub-allocator/internal/telemetry"
	"github.com/nmxmxh/slub-allocator/page"
)

func warnNilFree(l *telemetry.Logger) {
	if l != nil {
		l.Warn("slub: free(nil) is a no-op")
	}
}

// Option configures a SlubAllocator or TypedAllocator at construction.
type Option func(*allocOptions)

type allocOptions struct {
	pagesPerSlab int
	logger       *telemetry.Logger
}

func defaultOptions() allocOptions {
	return allocOptions{pagesPerSlab: PagesPerSlab}
}

// WithPagesPerSlab overrides the default one-page-per-slab layout. The
// resulting pagesPerSlab*PAGE_SIZE must be a power of two.
func WithPagesPerSlab(pages int) Option {
	return func(o *allocOptions) { o.pagesPerSlab = pages }
}

// WithLogger attaches a logger used only for the diagnostic line on a
// free(nil); invariant failures are not logged.
func WithLogger(l *telemetry.Logger) Option {
	return func(o *allocOptions) { o.logger = l }
}

// SlubAllocator is the size-class dispatcher: it routes an arbitrary-sized
// request to the matching SlubCache, or to the large-object path for
// requests above KMax. It holds no lock, matching the single-threaded
// baseline; see SlubCache's doc for what a concurrent variant would add.
type SlubAllocator struct {
	caches    [KNum]*SlubCache
	provider  page.Provider
	logger    *telemetry.Logger
	slabBytes uintptr

	// largeObjects records every live large allocation's header, keyed by
	// user pointer. The untagged Free consults this instead of blindly
	// dereferencing user-sizeof(BigHeader): spec's own open question (can
	// the magic byte collide with a small object's leading bytes?) is
	// resolved here in favor of option (b) from the design notes — a side
	// table — rather than trusting the magic alone. The BigHeader is still
	// written to memory and its magic still checked as a sanity assertion,
	// preserving the invariant that a dereferenced large-object header
	// carries MAGIC; the side table just keeps the *decision* of whether to
	// dereference it memory-safe.
	largeObjects map[uintptr]*bigHeader
}

// NewSlubAllocator builds a dispatcher with all nine size-class caches
// backed by provider.
func NewSlubAllocator(provider page.Provider, opts ...Option) (*SlubAllocator, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	a := &SlubAllocator{
		provider:     provider,
		logger:       o.logger,
		slabBytes:    uintptr(o.pagesPerSlab) * page.PageSize,
		largeObjects: make(map[uintptr]*bigHeader),
	}
	for i, sz := range sizeClasses {
		c, err := newSlubCache(provider, sz, sz, o.pagesPerSlab, o.logger)
		if err != nil {
			return nil, err
		}
		a.caches[i] = c
	}
	return a, nil
}

// classIndex maps a request size to its size-class index, rounding
// anything under 8 bytes up to the 8-byte class.
func classIndex(n uintptr) int {
	if n < sizeClasses[0] {
		n = sizeClasses[0]
	}
	for i, sz := range sizeClasses {
		if sz >= n {
			return i
		}
	}
	return -1
}

// Alloc routes n to its size class, or to the large-object path if n >
// KMax. The returned pointer is aligned to at least the serving class's
// natural alignment (small path) or Align (large path).
func (a *SlubAllocator) Alloc(n uintptr) (uintptr, error) {
	if n > KMax {
		user, h, err := allocLarge(a.provider, n)
		if err != nil {
			return 0, err
		}
		a.largeObjects[user] = h
		return user, nil
	}

	idx := classIndex(n)
	return a.caches[idx].Alloc()
}

// Free is the size-free release variant: it discriminates small vs. large
// via largeObjects membership (see the field doc) and dispatches
// accordingly. free(nil) is a no-op.
func (a *SlubAllocator) Free(ptr uintptr) error {
	if ptr == 0 {
		warnNilFree(a.logger)
		return nil
	}
	if h, ok := a.largeObjects[ptr]; ok {
		assertf(h.magic == Magic, "large-object header magic corrupted")
		delete(a.largeObjects, ptr)
		return freeLarge(a.provider, h)
	}
	return a.freeSmall(ptr)
}

// FreeSized is the size-aware release variant: it routes by the caller-
// supplied size directly. Sizes up to KMax go to the small path without
// consulting largeObjects. Larger sizes look ptr up in largeObjects, remove
// the entry and release the pages recorded in that allocation's header; the
// header's magic is not checked, and a pointer with no recorded large
// allocation is rejected with an error.
func (a *SlubAllocator) FreeSized(ptr uintptr, size uintptr) error {
	if ptr == 0 {
		warnNilFree(a.logger)
		return nil
	}
	if size > KMax {
		h, ok := a.largeObjects[ptr]
		if !ok {
			return errs.New("slub: FreeSized: no large allocation recorded for this pointer")
		}
		delete(a.largeObjects, ptr)
		return freeLarge(a.provider, h)
	}
	return a.freeSmall(ptr)
}

func (a *SlubAllocator) freeSmall(ptr uintptr) error {
	base := slabBase(ptr, a.slabBytes)
	h := headerAt(base)
	if h.cache == nil {
		return errs.New("slub: invalid free: pointer does not resolve to a known slab")
	}
	return h.cache.Free(ptr)
}

// AllocatorStats aggregates every size class plus the large-object path
// into one statistics snapshot.
type AllocatorStats struct {
	Classes          [KNum]CacheStats
	TotalSlabs       int
	ObjectsTotal     uint64
	ObjectsInUse     uint64
	MemoryUsageBytes uint64
	LargeObjects     int
}

// Stats returns a point-in-time snapshot across every cache and the
// large-object table.
func (a *SlubAllocator) Stats() AllocatorStats {
	var s AllocatorStats
	for i, c := range a.caches {
		cs := c.Stats()
		s.Classes[i] = cs
		slabs := cs.EmptySlabs + cs.PartialSlabs + cs.FullSlabs
		s.TotalSlabs += slabs
		s.ObjectsTotal += cs.ObjectsTotal
		s.ObjectsInUse += cs.ObjectsInUse
		s.MemoryUsageBytes += uint64(slabs) * uint64(c.slabBytes)
	}
	s.LargeObjects = len(a.largeObjects)
	return s
}
