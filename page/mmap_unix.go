//go:build unix

package page

import (
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/nmxmxh/slub-allocator/internal/align"
	"github.com/nmxmxh/slub-allocator/internal/errs"
)

// Mmap is a Provider backed by real anonymous OS pages obtained via
// mmap(2). Because the OS only promises PageSize alignment, each request is
// over-mapped by one extra alignment's worth of bytes and trimmed — the
// unused head and tail are munmap'd back to the OS immediately — so the
// window handed to the caller is aligned the way the slab engine's owner
// masking requires.
type Mmap struct {
	mu    sync.Mutex
	limit int
	used  int
	tel   telemetry
}

// NewMmap builds a Provider that will refuse AllocPages once limitBytes
// worth of pages are outstanding. limitBytes is advisory bookkeeping, not a
// reservation: no memory is mapped until it is requested.
func NewMmap(limitBytes int) (*Mmap, error) {
	if limitBytes <= 0 {
		return nil, errs.New("page: mmap limit must be positive")
	}
	return &Mmap{limit: limitBytes}, nil
}

// AllocPages implements Provider.
func (m *Mmap) AllocPages(pages int) (uintptr, error) {
	if pages <= 0 {
		return 0, errs.New("page: pages must be positive")
	}
	start := time.Now()
	size := pages * PageSize
	alignment := int(blockAlignment(pages))

	m.mu.Lock()
	if m.used+size > m.limit {
		m.mu.Unlock()
		return 0, errs.New("page: mmap budget exhausted")
	}
	m.used += size
	m.mu.Unlock()

	raw, err := unix.Mmap(-1, 0, size+alignment, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		m.mu.Lock()
		m.used -= size
		m.mu.Unlock()
		return 0, errs.Wrap(err, "page: mmap")
	}

	base := uintptr(unsafe.Pointer(&raw[0]))
	aligned := align.Up(base, uintptr(alignment))

	if head := int(aligned - base); head > 0 {
		_ = unix.Munmap(raw[:head])
	}
	if tailStart := int(aligned-base) + size; tailStart < len(raw) {
		_ = unix.Munmap(raw[tailStart:])
	}

	m.tel.recordAlloc(pages, time.Since(start))
	return aligned, nil
}

// FreePages implements Provider.
func (m *Mmap) FreePages(base uintptr, pages int) error {
	if base == 0 {
		return nil
	}
	start := time.Now()
	size := pages * PageSize

	region := unsafe.Slice((*byte)(unsafe.Pointer(base)), size)
	if err := unix.Munmap(region); err != nil {
		return errs.Wrap(err, "page: munmap")
	}

	m.mu.Lock()
	m.used -= size
	m.mu.Unlock()
	m.tel.recordFree(pages, time.Since(start))
	return nil
}

// Stats returns a snapshot of the provider's advisory counters.
func (m *Mmap) Stats() Stats {
	return m.tel.snapshot()
}
