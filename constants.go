package slub

import "github.com/nmxmxh/slub-allocator/page"

// Numeric constants that are part of the allocator's contract.
const (
	// PagesPerSlab is the default number of pages behind every slab; the
	// resulting SlabBytes must be a power of two (enforced in newSlubCache).
	PagesPerSlab = 1
	// SlabBytes is the default slab size: PagesPerSlab*PAGE_SIZE.
	SlabBytes = PagesPerSlab * page.PageSize

	// Align is the user-pointer alignment floor the large-object path
	// guarantees.
	Align = 16

	// KMax is the largest request size routed to a slab cache; anything
	// bigger takes the large-object path.
	KMax = 2048
	// KNum is the number of size classes.
	KNum = 9

	// Magic discriminates a BigHeader from ordinary small-object bytes at
	// the large path's fixed negative offset.
	Magic = uint32(0x12345678)
)

// sizeClasses holds the nine class sizes, 8*2^i for i in [0,KNum).
var sizeClasses = [KNum]uintptr{8, 16, 32, 64, 128, 256, 512, 1024, 2048}

// SizeClasses returns the nine class byte sizes in ascending order, for
// callers (internal/metrics) that need to label per-class
// statistics without reaching into unexported state.
func SizeClasses() [KNum]uintptr {
	return sizeClasses
}

// Debug, when true, enables extra invariant assertions on the alloc/free
// hot path (panics on violation). It is off by default: the baseline
// treats contract breaches as fatal defects, not something to pay for on
// every call in production use.
var Debug = false

func assertf(cond bool, msg string) {
	if Debug && !cond {
		panic("slub: invariant violation: " + msg)
	}
}
