// Package storage defines the persistence interfaces for pipeline
// artifacts: the chunk sets produced between stages and the quality metrics
// history per (product, version).
//
// Implementations live in subpackages (currently BadgerDB). All
// implementations must be safe for concurrent use.
package storage
