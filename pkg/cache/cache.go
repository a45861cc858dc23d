// Package cache stores converged layout snapshots so a later run can start
// warm instead of from the phyllotaxis seed.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per key under a local directory (CLI)
//   - [RedisCache]: a shared Redis instance (the HTTP server, multiple hosts)
//   - [NullCache]: never stores anything
//
// Keys come from a [Keyer]. The layout key hashes the graph content hash
// together with everything that changes the converged positions (force
// parameters, seed, tick cap), so a stale snapshot is never reused for a
// different configuration.
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().LayoutKey(g.Hash(), cache.LayoutKeyOpts{Params: p, Seed: seed})
//	snap, err := cache.LoadSnapshot(ctx, c, key)
//	if errors.Is(err, cache.ErrNotFound) {
//	    // cold start
//	}
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
