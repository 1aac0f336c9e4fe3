package chunker

import (
	"encoding/json"
	"fmt"
)

// Strategy selects how document text is segmented.
type Strategy int

const (
	// StrategyFixedSize splits by exact rune count with a fixed overlap.
	StrategyFixedSize Strategy = iota + 1
	// StrategySemantic splits on paragraph boundaries and merges consecutive
	// paragraphs up to the size limit, avoiding sentence splits.
	StrategySemantic
	// StrategyRecursive splits hierarchically: headings, then paragraphs,
	// then sentences, recursing into oversized segments.
	StrategyRecursive
)

// String returns the wire name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyFixedSize:
		return "fixed_size"
	case StrategySemantic:
		return "semantic"
	case StrategyRecursive:
		return "recursive"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a wire strategy name into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "fixed_size":
		return StrategyFixedSize, nil
	case "semantic":
		return StrategySemantic, nil
	case "recursive":
		return StrategyRecursive, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// Default sizes used in auto mode. Auto mode performs no content analysis;
// it is the documented fallback to these static values.
const (
	DefaultMaxSize = 1000
	DefaultOverlap = 200
	DefaultMinSize = 100
)

// Config is the validated chunking configuration for a run.
// Sizes are expressed in runes of the normalized text.
type Config struct {
	Strategy Strategy

	// MaxSize is the target upper bound on chunk length.
	MaxSize int

	// HardMax is the absolute cap; semantic and recursive merging never
	// produce a chunk above it. Defaults to MaxSize when unset.
	HardMax int

	// Overlap is the number of runes shared with the previous chunk.
	// Only the fixed_size strategy overlaps; it must be strictly less
	// than MaxSize.
	Overlap int

	// MinSize is the lower bound on chunk length. Only the final chunk of a
	// document may fall below it.
	MinSize int
}

// configJSON mirrors the product configuration wire format.
type configJSON struct {
	Mode           string `json:"mode"`
	ManualSettings struct {
		ChunkingStrategy string `json:"chunking_strategy"`
		ChunkSize        int    `json:"chunk_size"`
		ChunkOverlap     int    `json:"chunk_overlap"`
		MinChunkSize     int    `json:"min_chunk_size"`
		MaxChunkSize     int    `json:"max_chunk_size"`
	} `json:"manual_settings"`
}

// DefaultConfig returns the auto-mode defaults: fixed-size windows of
// DefaultMaxSize runes with DefaultOverlap overlap.
func DefaultConfig() *Config {
	return &Config{
		Strategy: StrategyFixedSize,
		MaxSize:  DefaultMaxSize,
		HardMax:  DefaultMaxSize,
		Overlap:  DefaultOverlap,
		MinSize:  DefaultMinSize,
	}
}

// ParseConfig parses the chunking configuration JSON blob from product
// configuration. Mode "auto" ignores manual settings and returns the static
// defaults. Mode "manual" requires a known strategy and in-range sizes.
func ParseConfig(data []byte) (*Config, error) {
	var raw configJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedConfig, err)
	}

	switch raw.Mode {
	case "auto":
		return DefaultConfig(), nil
	case "manual":
	default:
		return nil, fmt.Errorf("%w: mode %q", ErrMalformedConfig, raw.Mode)
	}

	strategy, err := ParseStrategy(raw.ManualSettings.ChunkingStrategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedConfig, err)
	}

	cfg := &Config{
		Strategy: strategy,
		MaxSize:  raw.ManualSettings.ChunkSize,
		HardMax:  raw.ManualSettings.MaxChunkSize,
		Overlap:  raw.ManualSettings.ChunkOverlap,
		MinSize:  raw.ManualSettings.MinChunkSize,
	}
	if cfg.HardMax == 0 {
		cfg.HardMax = cfg.MaxSize
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	if c.Strategy != StrategyFixedSize && c.Strategy != StrategySemantic && c.Strategy != StrategyRecursive {
		return fmt.Errorf("%w: strategy value %d", ErrMalformedConfig, c.Strategy)
	}
	if c.MaxSize <= 0 {
		return fmt.Errorf("%w: chunk size %d must be positive", ErrMalformedConfig, c.MaxSize)
	}
	if c.HardMax < c.MaxSize {
		return fmt.Errorf("%w: max chunk size %d below chunk size %d",
			ErrMalformedConfig, c.HardMax, c.MaxSize)
	}
	if c.Overlap < 0 || c.Overlap >= c.MaxSize {
		return fmt.Errorf("%w: overlap %d must be in [0, chunk size)", ErrMalformedConfig, c.Overlap)
	}
	if c.MinSize < 0 || c.MinSize > c.MaxSize {
		return fmt.Errorf("%w: min chunk size %d must be in [0, chunk size]",
			ErrMalformedConfig, c.MinSize)
	}
	return nil
}
