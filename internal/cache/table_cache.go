// Package cache provides a read-through LRU cache in front of a coordinate
// table source.
package cache

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/config"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/observability"
)

// Lookup results.
const (
	ResultHit     = "hit"
	ResultMiss    = "miss"
	ResultExpired = "expired"
)

type clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// tableEntry wraps the cached rows with their expiry
type tableEntry struct {
	rows      []models.AntennaRecord
	expiresAt time.Time
}

// TableCache caches the rows of a CoordinateTable per station. Tables never
// change, so entries only leave by TTL or eviction. Failed loads are not
// cached.
type TableCache struct {
	next    models.CoordinateTable
	lru     *lru.Cache[string, *tableEntry]
	ttl     time.Duration
	clock   clock
	metrics *observability.Collector

	mu     sync.Mutex
	hits   uint64
	misses uint64
}

// NewTableCache wraps next in an LRU cache sized and timed by cfg. metrics
// may be nil.
func NewTableCache(next models.CoordinateTable, cfg *config.CacheConfig, metrics *observability.Collector) (*TableCache, error) {
	if cfg == nil {
		cfg = config.GetCacheConfig()
	}

	lruCache, err := lru.New[string, *tableEntry](cfg.TableLRUSize)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}

	return &TableCache{
		next:    next,
		lru:     lruCache,
		ttl:     cfg.GetTableLRUTTL(),
		clock:   systemClock{},
		metrics: metrics,
	}, nil
}

// Wrap returns next behind a TableCache, or next itself when the cache is
// disabled.
func Wrap(next models.CoordinateTable, cfg *config.CacheConfig, metrics *observability.Collector) (models.CoordinateTable, error) {
	if cfg == nil {
		cfg = config.GetCacheConfig()
	}
	if !cfg.EnableLRUCache {
		return next, nil
	}
	return NewTableCache(next, cfg, metrics)
}

func (c *TableCache) RowsFor(ctx context.Context, station string) ([]models.AntennaRecord, error) {
	if entry, ok := c.lru.Get(station); ok {
		if c.clock.Now().Before(entry.expiresAt) {
			c.record(ResultHit)
			return slices.Clone(entry.rows), nil
		}
		// Entry expired, remove it
		c.lru.Remove(station)
		c.record(ResultExpired)
	} else {
		c.record(ResultMiss)
	}

	rows, err := c.next.RowsFor(ctx, station)
	c.metrics.ObserveTableLoad(err)
	if err != nil {
		log.Warn().Err(err).Str("station", station).Msg("Coordinate table load failed")
		return nil, err
	}

	c.lru.Add(station, &tableEntry{
		rows:      slices.Clone(rows),
		expiresAt: c.clock.Now().Add(c.ttl),
	})
	return rows, nil
}

func (c *TableCache) record(result string) {
	c.mu.Lock()
	if result == ResultHit {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()

	c.metrics.ObserveCacheLookup(result)
	log.Debug().Str("result", result).Msg("Coordinate table cache lookup")
}

// GetCacheStats returns statistics about cache hits and misses. Expired
// entries count as misses.
func (c *TableCache) GetCacheStats() map[string]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return map[string]uint64{
		"hits":    c.hits,
		"misses":  c.misses,
		"entries": uint64(c.lru.Len()),
	}
}

// Clear removes all entries from the LRU cache
func (c *TableCache) Clear() {
	c.lru.Purge()
}
