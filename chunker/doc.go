// Package chunker splits normalized document text into bounded, optionally
// overlapping segments for downstream optimization, scoring and embedding.
//
// Three strategies are available: fixed_size (exact rune windows with a
// configurable overlap), semantic (paragraph merging that avoids splitting
// sentences) and recursive (headings, then paragraphs, then sentences,
// recursing into anything still over size).
//
// Chunks carry stable, monotonic sequence indices and rune offsets into the
// normalized source text. Downstream consumers rely on chunk order for
// context reconstruction, so the order never depends on processing
// concurrency.
package chunker
