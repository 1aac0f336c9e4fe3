// Package index upserts chunk vectors and their metadata payloads into the
// vector store.
//
// Points are keyed by (chunk id, version), so re-indexing the same chunk and
// version overwrites rather than duplicates. Payloads carry everything
// query-time filtering needs: provenance, tags, trust score and the
// access-control scopes at index, document and field level.
package index
