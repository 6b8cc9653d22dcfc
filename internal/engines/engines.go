// Package engines opens databases from configuration. Importing it links
// every bundled engine into the binary.
package engines

import (
	"github.com/semihalev/duckflat"
	"github.com/semihalev/duckflat/engine/duckdb"
	"github.com/semihalev/duckflat/engine/sqlite"
	"github.com/semihalev/duckflat/internal/config"
)

// NewAllocator returns the allocator for result buffers: a pooled allocator,
// capped by a byte budget when one is configured.
func NewAllocator(cfg *config.Config) duckflat.Allocator {
	pool := duckflat.NewPoolAllocator()
	if cfg.MaxResultBytes > 0 {
		return duckflat.NewBudgetAllocator(pool, cfg.MaxResultBytes)
	}
	return pool
}

// Open opens cfg.Path with the engine named by name, applying the engine
// settings from cfg to the bundled engines. An empty name selects cfg.Engine.
func Open(cfg *config.Config, name string, opts ...duckflat.Option) (*duckflat.Database, error) {
	if name == "" {
		name = cfg.Engine
	}
	switch name {
	case duckdb.Name:
		return duckflat.OpenEngine(duckdb.Name, &duckdb.Engine{
			LibraryPath: cfg.DuckDB.Library,
			ChunkSize:   cfg.ChunkSize,
		}, cfg.Path, opts...)
	case sqlite.Name:
		return duckflat.OpenEngine(sqlite.Name, &sqlite.Engine{ChunkSize: cfg.ChunkSize}, cfg.Path, opts...)
	default:
		return duckflat.Open(name, cfg.Path, opts...)
	}
}
