// Package slub implements a SLUB-style object allocator: per-size-class
// slab caches that carve page-aligned regions obtained from a page.Provider
// into fixed-size object pools, plus a size-class dispatcher and a
// large-object path for requests too big for any slab class.
//
// The engine is single-threaded and synchronous by design — see the
// package-level comments on SlubCache and SlubAllocator for what that does
// and does not guarantee.
package slub
