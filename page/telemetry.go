package page

import (
	"sync/atomic"
	"time"
)

// telemetry is the counter/timer bookkeeping shared by every Provider
// implementation. It is purely advisory — nothing in the slab engine reads
// it — so it is kept on its own struct, atomically updated, independent of
// whatever lock a given Provider uses for its real bookkeeping.
type telemetry struct {
	currentPages int64
	totalPages   int64
	allocNanos   int64
	freeNanos    int64
}

func (t *telemetry) recordAlloc(pages int, d time.Duration) {
	atomic.AddInt64(&t.currentPages, int64(pages))
	atomic.AddInt64(&t.totalPages, int64(pages))
	atomic.AddInt64(&t.allocNanos, d.Nanoseconds())
}

func (t *telemetry) recordFree(pages int, d time.Duration) {
	atomic.AddInt64(&t.currentPages, -int64(pages))
	atomic.AddInt64(&t.freeNanos, d.Nanoseconds())
}

func (t *telemetry) snapshot() Stats {
	return Stats{
		CurrentPages: atomic.LoadInt64(&t.currentPages),
		TotalPages:   atomic.LoadInt64(&t.totalPages),
		AllocNanos:   atomic.LoadInt64(&t.allocNanos),
		FreeNanos:    atomic.LoadInt64(&t.freeNanos),
	}
}
