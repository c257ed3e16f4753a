// Package metrics exposes allocator and page-provider statistics as
// Prometheus gauges, grounded on the client_golang dependency the
// originating module already carried indirectly (pulled in by its mesh
// transport stack, never imported directly there).
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	slub "github.com/nmxmxh/slub-allocator"
	"github.com/nmxmxh/slub-allocator/page"
)

// Registry holds the gauge set for one allocator instance. Callers update
// the gauges from a periodic snapshot of SlubAllocator.Stats / page
// provider Stats; the registry holds no reference to an allocator or a
// provider. This package imports the allocator package for the snapshot
// types, so the allocator package does not import this one.
type Registry struct {
	Registerer prometheus.Registerer

	ObjectsInUse       *prometheus.GaugeVec
	ObjectsTotal       *prometheus.GaugeVec
	SlabsEmpty         *prometheus.GaugeVec
	SlabsPartial       *prometheus.GaugeVec
	SlabsFull          *prometheus.GaugeVec
	LargeObjects       prometheus.Gauge
	MemoryUsageBytes   prometheus.Gauge
	PagesOutstanding   prometheus.Gauge
	PagesEverAllocated prometheus.Gauge
}

// NewRegistry builds and registers a fresh gauge set against reg. Passing
// prometheus.NewRegistry() (rather than the global DefaultRegisterer) keeps
// multiple allocator instances in a test binary from colliding on metric
// names.
func NewRegistry(reg prometheus.Registerer, namespace string) *Registry {
	r := &Registry{
		Registerer: reg,
		ObjectsInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "objects_in_use",
			Help:      "Live objects per size class.",
		}, []string{"class"}),
		ObjectsTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "objects_total",
			Help:      "Total object capacity per size class.",
		}, []string{"class"}),
		SlabsEmpty: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "slabs_empty",
			Help:      "Slabs on the empty list per size class.",
		}, []string{"class"}),
		SlabsPartial: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "slabs_partial",
			Help:      "Slabs on the partial list per size class.",
		}, []string{"class"}),
		SlabsFull: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "slabs_full",
			Help:      "Slabs on the full list per size class.",
		}, []string{"class"}),
		LargeObjects: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "large_objects",
			Help:      "Live allocations served by the large-object path.",
		}),
		MemoryUsageBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_usage_bytes",
			Help:      "Bytes held in slabs across every size class.",
		}),
		PagesOutstanding: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pages_outstanding",
			Help:      "Pages currently on loan from the page provider.",
		}),
		PagesEverAllocated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pages_ever_allocated",
			Help:      "Pages the page provider has handed out over its lifetime.",
		}),
	}

	reg.MustRegister(
		r.ObjectsInUse, r.ObjectsTotal,
		r.SlabsEmpty, r.SlabsPartial, r.SlabsFull,
		r.LargeObjects, r.MemoryUsageBytes,
		r.PagesOutstanding, r.PagesEverAllocated,
	)
	return r
}

// ObserveAllocator copies one AllocatorStats snapshot into the gauge set.
func (r *Registry) ObserveAllocator(s slub.AllocatorStats) {
	classes := slub.SizeClasses()
	for i, cs := range s.Classes {
		label := strconv.FormatUint(uint64(classes[i]), 10)
		r.ObjectsInUse.WithLabelValues(label).Set(float64(cs.ObjectsInUse))
		r.ObjectsTotal.WithLabelValues(label).Set(float64(cs.ObjectsTotal))
		r.SlabsEmpty.WithLabelValues(label).Set(float64(cs.EmptySlabs))
		r.SlabsPartial.WithLabelValues(label).Set(float64(cs.PartialSlabs))
		r.SlabsFull.WithLabelValues(label).Set(float64(cs.FullSlabs))
	}
	r.LargeObjects.Set(float64(s.LargeObjects))
	r.MemoryUsageBytes.Set(float64(s.MemoryUsageBytes))
}

// ObservePages copies one page provider Stats snapshot into the gauge set.
func (r *Registry) ObservePages(s page.Stats) {
	r.PagesOutstanding.Set(float64(s.CurrentPages))
	r.PagesEverAllocated.Set(float64(s.TotalPages))
}
