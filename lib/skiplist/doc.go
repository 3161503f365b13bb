// Package skiplist implements the engine's ordered key-value index: a
// probabilistic multi-level linked structure where every element lives in
// the bottom chain and, with halving probability, in each chain above it.
// Lookups, inserts and deletes walk the levels top-down and touch O(log n)
// nodes in expectation.
//
// The package focuses on:
//   - The generic SkipList[K, V] with insert/update/search/delete/clear
//     semantics, guarded by a single mutex (operations are linearizable)
//   - Snapshot persistence: a Codec serializes the bottom chain to a JSON
//     array of {"key", "value"} objects and restores it element by element,
//     skipping malformed elements instead of aborting
//   - AutoSaver: a background actor that periodically snapshots a list to a
//     timestamped file until closed
//
// Key Components:
//
//   - SkipList: the index itself. Keys are unique and strictly increasing
//     along every chain; each level is a subset of the one below it.
//
//   - Codec: pairs a list with per-type JSON adapters so keys and values of
//     any type can be mapped to their JSON representation.
//
//   - Error System: typed error codes (RetCode) wrapped in *Error, so
//     callers can distinguish I/O failures from malformed snapshot data.
package skiplist
