// Package tracker provides skip.Tracker implementations.
//
// - Memory: in-process map, the default for a single process pipeline
// - Redis: values kept in Redis under per-unit keys, with optional TTL
//
// Both trackers hand a stashed value out once: Load removes what it returns.
// Values a unit stashed but never popped are dropped by Release.
package tracker
