package page

import (
	"sync"
	"time"
	"unsafe"

	"github.com/nmxmxh/slub-allocator/internal/align"
	"github.com/nmxmxh/slub-allocator/internal/errs"
)

// Arena is a deterministic, OS-free Provider backed by a single contiguous
// Go byte slice. It hands out SLAB_BYTES-aligned regions by bump allocation
// over that slice, threading freed regions of a given page count onto an
// in-place singly-linked free chain (the next pointer is written into the
// first machine word of the freed block itself) keyed by page count, so
// repeated same-size churn in tests does not grow the arena unboundedly.
//
// This generalizes the byte-slice-backed ("sab []byte") memory model this
// codebase uses elsewhere for raw storage, replacing slice-offset
// bookkeeping with real uintptr addresses obtained via unsafe.Pointer.
//
// buf is held for the Arena's entire lifetime: it is the only reference
// keeping the backing array reachable, since every address handed out is a
// bare uintptr the garbage collector does not trace.
type Arena struct {
	mu        sync.Mutex
	buf       []byte
	base      uintptr
	end       uintptr
	next      uintptr
	freeLists map[int]uintptr
	tel       telemetry
}

// NewArena allocates a fresh arena able to serve totalBytes worth of pages.
func NewArena(totalBytes int) (*Arena, error) {
	if totalBytes <= 0 {
		return nil, errs.New("page: arena size must be positive")
	}
	buf := make([]byte, totalBytes+PageSize)
	base := align.Up(uintptr(unsafe.Pointer(&buf[0])), PageSize)
	return &Arena{
		buf:       buf,
		base:      base,
		end:       base + uintptr(totalBytes),
		next:      base,
		freeLists: make(map[int]uintptr),
	}, nil
}

// AllocPages implements Provider.
func (a *Arena) AllocPages(pages int) (uintptr, error) {
	if pages <= 0 {
		return 0, errs.New("page: pages must be positive")
	}
	start := time.Now()

	a.mu.Lock()
	defer a.mu.Unlock()

	if head, ok := a.freeLists[pages]; ok && head != 0 {
		a.freeLists[pages] = readNext(head)
		a.tel.recordAlloc(pages, time.Since(start))
		return head, nil
	}

	size := uintptr(pages) * PageSize
	aligned := align.Up(a.next, blockAlignment(pages))
	if aligned+size > a.end {
		return 0, errs.New("page: arena out of memory")
	}
	a.next = aligned + size
	a.tel.recordAlloc(pages, time.Since(start))
	return aligned, nil
}

// FreePages implements Provider.
func (a *Arena) FreePages(base uintptr, pages int) error {
	if base == 0 {
		return nil
	}
	start := time.Now()

	a.mu.Lock()
	defer a.mu.Unlock()

	if base < a.base || base >= a.end {
		return errs.New("page: free of an address this arena never issued")
	}

	writeNext(base, a.freeLists[pages])
	a.freeLists[pages] = base
	a.tel.recordFree(pages, time.Since(start))
	return nil
}

// Stats returns a snapshot of the arena's advisory counters.
func (a *Arena) Stats() Stats {
	return a.tel.snapshot()
}

func readNext(ptr uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(ptr))
}

func writeNext(ptr, next uintptr) {
	*(*uintptr)(unsafe.Pointer(ptr)) = next
}
