// Package manifest produces the precache manifest that gets spliced into the
// service worker: the entry type, a deterministic serializer, the entry
// source interface consumed by the injection engine, and a default entry
// source that derives entries from a compilation's final assets.
//
// # Determinism
//
// Serialize guarantees byte-identical output for equal input sequences,
// including entry order: object keys are emitted in sorted order and arrays
// in the given order, so repeated builds produce reproducible diffs.
//
// # Entry sources
//
// The engine consumes entries through the EntrySource interface; AssetSource
// is the default implementation, filtering assets through include/exclude
// globs and exclusion predicates, hashing content for revisions, and running
// the ordered transform pipeline:
//
//	src := manifest.NewAssetSource(manifest.AssetSourceOptions{})
//	entries, total, err := src.ComputeEntries(comp, cfg)
package manifest
