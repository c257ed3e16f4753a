// Command slubdemo drives the allocator against a real OS page provider,
// exercising every size class plus the large-object path while exporting
// Prometheus metrics, so the engine can be watched under sustained
// alloc/free churn rather than only under unit tests.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	slub "github.com/nmxmxh/slub-allocator"
	"github.com/nmxmxh/slub-allocator/internal/config"
	"github.com/nmxmxh/slub-allocator/internal/metrics"
	"github.com/nmxmxh/slub-allocator/internal/telemetry"
	"github.com/nmxmxh/slub-allocator/page"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file (optional, defaults used otherwise)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "slubdemo:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	level := telemetry.Info
	switch cfg.Logging.Level {
	case "debug":
		level = telemetry.Debug
	case "warn":
		level = telemetry.Warn
	case "error":
		level = telemetry.Error
	}
	logger := telemetry.New(telemetry.Config{
		Level:     level,
		Component: "slubdemo",
		Colorize:  cfg.Logging.Colorize,
	})
	defer logger.Sync()

	runID := uuid.New().String()
	logger.Info("starting", zap.String("run_id", runID))

	provider, err := newProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("building page provider", zap.Error(err))
	}

	alloc, err := slub.NewSlubAllocator(provider,
		slub.WithPagesPerSlab(cfg.Allocator.PagesPerSlab),
		slub.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal("building allocator", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())
	m := metrics.NewRegistry(reg, "slub")

	if cfg.Metrics.Enabled {
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			logger.Info("metrics listening", zap.String("addr", cfg.Metrics.Addr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server", zap.Error(err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go churn(ctx, alloc)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down", zap.String("run_id", runID))
			return
		case <-ticker.C:
			m.ObserveAllocator(alloc.Stats())
			if ps, ok := pageStats(provider); ok {
				m.ObservePages(ps)
			}
		}
	}
}

func newProvider(cfg config.ProviderConfig) (page.Provider, error) {
	limitBytes := cfg.ArenaLimitMiB * 1 << 20
	switch cfg.Kind {
	case "mmap":
		return page.NewMmap(limitBytes)
	default:
		return page.NewArena(limitBytes)
	}
}

// pageStats type-asserts for the Stats() method every concrete Provider
// exposes; Provider itself does not require it, since the slab engine never
// calls it.
func pageStats(p page.Provider) (page.Stats, bool) {
	type statser interface{ Stats() page.Stats }
	s, ok := p.(statser)
	if !ok {
		return page.Stats{}, false
	}
	return s.Stats(), true
}

// churn is a synthetic workload: random-sized alloc/free pairs across every
// class plus the large path, kept outstanding for a random, bounded window
// so the cache sees a realistic partial/empty/full mix.
func churn(ctx context.Context, alloc *slub.SlubAllocator) {
	live := make([]uintptr, 0, 1024)
	r := rand.New(rand.NewSource(1))
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if len(live) > 512 || (len(live) > 0 && r.Intn(2) == 0) {
			idx := r.Intn(len(live))
			ptr := live[idx]
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]
			_ = alloc.Free(ptr)
			continue
		}

		size := uintptr(1 << uint(r.Intn(13)))
		ptr, err := alloc.Alloc(size)
		if err != nil {
			continue
		}
		live = append(live, ptr)

		if len(live)%64 == 0 {
			time.Sleep(time.Millisecond)
		}
	}
}
