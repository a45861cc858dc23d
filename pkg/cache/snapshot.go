package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/coauthornet/pkg/observability"
	"github.com/matzehuels/coauthornet/pkg/sim"
)

const keyTypeLayout = "layout"

// LoadSnapshot reads the snapshot stored under key. A miss returns
// [ErrNotFound]; an undecodable entry is deleted and also reported as a miss.
func LoadSnapshot(ctx context.Context, c Cache, key string) (sim.Snapshot, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return sim.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
		return sim.Snapshot{}, ErrNotFound
	}
	snap, err := sim.UnmarshalSnapshot(data)
	if err != nil {
		_ = c.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
		return sim.Snapshot{}, ErrNotFound
	}
	observability.Cache().OnCacheHit(ctx, keyTypeLayout)
	return snap, nil
}

// StoreSnapshot encodes snap and writes it under key.
func StoreSnapshot(ctx context.Context, c Cache, key string, snap sim.Snapshot, ttl time.Duration) error {
	data, err := sim.MarshalSnapshot(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	observability.Cache().OnCacheSet(ctx, keyTypeLayout, len(data))
	return nil
}
