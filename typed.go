package slub

import (
	"unsafe"

	"github.com/nmxmxh/slub-allocator/internal/telemetry"
	"github.com/nmxmxh/slub-allocator/page"
)

// TypedAllocator is the typed allocation surface: a single-cache variant parameterized by a fixed object type T, with its own
// three lists, that never consults the nine-class dispatcher.
//
// When sizeof(T) exceeds KMax there is no class to size it for, so
// TypedAllocator takes pages directly from the provider instead. It skips
// the untyped path's BigHeader entirely: Free receives a *T, which is
// already a type-safe proof of provenance, so there is nothing for a magic
// byte to discriminate, and every allocation needs exactly the same page
// count, so that count is a constant on the allocator rather than
// per-object metadata.
type TypedAllocator[T any] struct {
	cache    *SlubCache
	provider page.Provider
	logger   *telemetry.Logger
	bigPages int // >0 when sizeof(T) > KMax and cache is nil
}

// NewTypedAllocator builds a TypedAllocator sized and aligned for T.
func NewTypedAllocator[T any](provider page.Provider, opts ...Option) (*TypedAllocator[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var zero T
	size := unsafe.Sizeof(zero)
	align := unsafe.Alignof(zero)

	if size > KMax {
		pages := int((size + page.PageSize - 1) / page.PageSize)
		return &TypedAllocator[T]{provider: provider, logger: o.logger, bigPages: pages}, nil
	}

	c, err := newSlubCache(provider, size, align, o.pagesPerSlab, o.logger)
	if err != nil {
		return nil, err
	}
	return &TypedAllocator[T]{cache: c, provider: provider, logger: o.logger}, nil
}

// Alloc returns a pointer to a fresh, uninitialized T.
func (t *TypedAllocator[T]) Alloc() (*T, error) {
	if t.cache == nil {
		base, err := t.provider.AllocPages(t.bigPages)
		if err != nil {
			return nil, err
		}
		return (*T)(unsafe.Pointer(base)), nil
	}
	ptr, err := t.cache.Alloc()
	if err != nil {
		return nil, err
	}
	return (*T)(unsafe.Pointer(ptr)), nil
}

// Free releases p, which must have come from this allocator's Alloc.
func (t *TypedAllocator[T]) Free(p *T) error {
	if p == nil {
		warnNilFree(t.logger)
		return nil
	}
	ptr := uintptr(unsafe.Pointer(p))
	if t.cache == nil {
		return t.provider.FreePages(ptr, t.bigPages)
	}
	return t.cache.Free(ptr)
}

// Stats returns the backing cache's statistics. For the big-object variant
// (sizeof(T) > KMax) there is no cache to report on and Stats returns the
// zero value.
func (t *TypedAllocator[T]) Stats() CacheStats {
	if t.cache == nil {
		return CacheStats{}
	}
	return t.cache.Stats()
}
