// Package policy gates pipeline output on quality metrics.
//
// The evaluator compares the latest QualityMetrics against configurable
// thresholds and yields PASSED, FAILED or WARNINGS. A FAILED verdict is an
// expected terminal state surfaced to the calling product, never a system
// error, and is not retried automatically.
package policy
