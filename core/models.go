package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or storage sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// OptimizationMethod identifies which optimization path produced a chunk's
// final text.
type OptimizationMethod int

const (
	// MethodPattern means only the rule-based pattern pass touched the text.
	MethodPattern OptimizationMethod = iota + 1
	// MethodHybrid means the pattern pass ran and the LLM pass was invoked
	// because the estimated quality fell below the configured threshold.
	MethodHybrid
	// MethodLLM means the LLM pass was invoked unconditionally.
	MethodLLM
)

// String returns the wire name of the method ("pattern", "hybrid", "llm").
func (m OptimizationMethod) String() string {
	switch m {
	case MethodPattern:
		return "pattern"
	case MethodHybrid:
		return "hybrid"
	case MethodLLM:
		return "llm"
	default:
		return "unknown"
	}
}

// DocumentMetadata holds metadata detected in or attached to a document.
// Empty fields simply mean nothing was detected; that is not an error.
type DocumentMetadata struct {
	Date       string
	Author     string
	DocVersion string
	Section    string
	Source     string
}

// RawDocument represents an ingested document handed to the pipeline.
// It is immutable once created for a given version; the pipeline never
// writes back to it.
type RawDocument struct {
	Id         ID
	SourcePath string
	BlobKey    string // Blob Store key for the raw bytes
	Text       string // extracted text content
	Detected   DocumentMetadata
	Tags       []string
}

// Chunk represents a bounded, possibly overlapping text segment derived
// from a document. It is the unit of optimization, embedding and indexing.
// A chunk is mutated exactly once by per-chunk optimization and is
// immutable after embedding.
type Chunk struct {
	Id               ID
	DocumentID       ID
	Seq              int // position within the document, stable and monotonic
	Text             string
	TokenEstimate    int
	StartOffset      int // rune offset into the normalized document text
	EndOffset        int
	OverlapsPrevious bool
	Tags             []string
	Method           OptimizationMethod // populated by per-chunk optimization
	Cost             float64            // LLM cost attributed to this chunk
	QualityScore     float64            // estimated quality at optimization time
	InsertedAt       time.Time
	UpdatedAt        time.Time
}

// EmbeddingVector is the embedding of a single chunk for a given model.
type EmbeddingVector struct {
	ChunkID   ID
	Model     string
	Dimension int
	Values    []float32
	Duration  time.Duration // generation time of the batch this vector came from
}

// Quality dimension names as they appear in QualityMetrics.Dimensions
// and the vector-store payload.
const (
	DimensionQuality          = "quality"
	DimensionCompleteness     = "completeness"
	DimensionSecurity         = "security"
	DimensionMetadataPresence = "metadata_presence"
	DimensionKBReady          = "knowledgebase_ready"
)

// QualityMetrics holds per-run quality dimension scores and the derived
// AI trust score. A new QualityMetrics supersedes the previous one for the
// same (product, version); values are never mutated in place.
type QualityMetrics struct {
	ProductID  string
	Version    string
	Dimensions map[string]float64 // each value clamped to [0,100]
	TrustScore float64            // weighted aggregate, clamped to [0,100]
	ComputedAt time.Time
}

// Dimension returns the named dimension score, or 0 if absent.
func (m *QualityMetrics) Dimension(name string) float64 {
	if m.Dimensions == nil {
		return 0
	}
	return m.Dimensions[name]
}

// ClampScore clamps a score to the [0,100] range all quality dimensions
// and the trust score live in.
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// PolicyStatus is the verdict of a policy evaluation.
type PolicyStatus int

const (
	// PolicyPassed means every metric cleared its threshold with margin.
	PolicyPassed PolicyStatus = iota + 1
	// PolicyFailed means at least one metric fell below its threshold.
	PolicyFailed
	// PolicyWarnings means every metric passed but one or more sit within
	// the soft-pass margin above their threshold.
	PolicyWarnings
)

// String returns the wire name of the status.
func (s PolicyStatus) String() string {
	switch s {
	case PolicyPassed:
		return "PASSED"
	case PolicyFailed:
		return "FAILED"
	case PolicyWarnings:
		return "WARNINGS"
	default:
		return "unknown"
	}
}

// MetricCheck records the evaluation of a single metric against its
// threshold.
type MetricCheck struct {
	Name       string
	Value      float64
	Threshold  float64
	Passed     bool
	Borderline bool // passed, but within the warning margin of the threshold
}

// ThresholdSnapshot captures the thresholds a policy evaluation ran with,
// so a PolicyResult can be interpreted after thresholds change.
type ThresholdSnapshot struct {
	TrustScore       float64
	Security         float64
	MetadataPresence float64
	KBReady          float64
	WarnMargin       float64
}

// PolicyResult is the outcome of evaluating QualityMetrics against
// thresholds. A FAILED result is an expected terminal state surfaced to the
// calling product, not a system error.
type PolicyResult struct {
	Status     PolicyStatus
	Checks     []MetricCheck
	Thresholds ThresholdSnapshot
}
