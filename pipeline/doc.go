// Package pipeline orchestrates a full processing run over a
// (product, version) pair: document-level optimization, chunking,
// per-chunk optimization, quality scoring, embedding, vector indexing
// and policy evaluation.
//
// Documents are isolated from each other: a failure in one document is
// recorded in its outcome and never aborts its siblings. The run report
// carries per-stage and per-document results, so a mixed run surfaces as
// partial rather than as a single error.
package pipeline
