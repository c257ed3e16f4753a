// Package config loads cmd/slubdemo's TOML configuration. It is kept out of
// the allocator core entirely: the slab engine and dispatcher take their
// parameters (pages per slab, logger) as constructor options, never from
// a file, matching the baseline's contract that configuration and CLI
// plumbing live outside the core.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the demo binary's full set of knobs.
type Config struct {
	Provider  ProviderConfig  `toml:"provider"`
	Allocator AllocatorConfig `toml:"allocator"`
	Logging   LoggingConfig   `toml:"logging"`
	Metrics   MetricsConfig   `toml:"metrics"`
}

// ProviderConfig selects and sizes the page provider.
type ProviderConfig struct {
	// Kind is "mmap" (real OS pages) or "arena" (in-process, bounded).
	Kind          string `toml:"kind"`
	ArenaLimitMiB int    `toml:"arena_limit_mib"`
}

// AllocatorConfig mirrors the Option set NewSlubAllocator accepts.
type AllocatorConfig struct {
	PagesPerSlab int `toml:"pages_per_slab"`
}

// LoggingConfig configures internal/telemetry.
type LoggingConfig struct {
	Level    string `toml:"level"`
	Colorize bool   `toml:"colorize"`
}

// MetricsConfig configures the Prometheus exporter's HTTP listener.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

// Default returns the configuration cmd/slubdemo runs with when no file is
// given.
func Default() Config {
	return Config{
		Provider: ProviderConfig{
			Kind:          "mmap",
			ArenaLimitMiB: 64,
		},
		Allocator: AllocatorConfig{
			PagesPerSlab: 1,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Colorize: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9090",
		},
	}
}

// Load reads and merges a TOML file over Default. A key missing from the
// file keeps its default, since toml.Decode only overwrites keys present in
// the file; a file that fails to decode returns an error and a zero Config.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}
