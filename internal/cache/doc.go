// Package cache provides a generic thread-safe LRU cache.
//
//	c := cache.New[uint64, Plan](64)
//	plan := c.GetOrCreate(key, func() Plan { return buildPlan(key) })
//
// Lookups, inserts and evictions are O(1). Hit, miss and eviction counts are
// available through Stats.
package cache
