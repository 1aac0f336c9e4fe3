// Package quality computes the multi-dimensional readiness metrics for a
// document's chunk set: text quality, completeness, security (PII redaction
// effectiveness), metadata presence and knowledge-base readiness, plus the
// aggregate AI trust score.
//
// Every dimension is a pure function of its inputs. Identical chunks and
// metadata always produce identical scores, and all values are clamped to
// [0,100].
package quality
