// Package embed converts chunk text into embedding vectors with
// dimension-aware adaptive batching.
//
// Batch sizes shrink as model dimension grows, since higher-dimensional
// models cost proportionally more memory and request size per item. Every
// returned vector is validated against the model's registered dimension; a
// mismatch aborts the document's embedding rather than indexing corrupt
// vectors. Transient provider errors are retried with exponential backoff;
// auth failures and invalid models are surfaced immediately.
package embed
