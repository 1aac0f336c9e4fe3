package optimize

import (
	"encoding/json"
	"fmt"
)

// Mode selects the optimization strategy for a pipeline run.
// It is the single dispatch point for pattern/hybrid/llm behavior; call
// sites never branch on raw mode strings.
type Mode int

const (
	// ModePattern runs only the free rule-based pass.
	ModePattern Mode = iota + 1
	// ModeHybrid runs the rule-based pass and escalates low-quality chunks
	// to the LLM.
	ModeHybrid
	// ModeLLM runs the rule-based pass and sends every chunk to the LLM.
	ModeLLM
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	switch m {
	case ModePattern:
		return "pattern"
	case ModeHybrid:
		return "hybrid"
	case ModeLLM:
		return "llm"
	default:
		return "unknown"
	}
}

// ParseMode converts a wire mode name into a Mode.
// Unknown names are rejected; the pipeline never guesses a strategy.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "pattern":
		return ModePattern, nil
	case "hybrid":
		return ModeHybrid, nil
	case "llm":
		return ModeLLM, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// PatternFlags controls which rule-based passes run.
type PatternFlags struct {
	// EnhancedNormalization strips control characters, collapses whitespace,
	// fixes punctuation spacing and normalizes typography to ASCII.
	EnhancedNormalization bool

	// ErrorCorrection fixes a fixed dictionary of common OCR/typo tokens and
	// repairs letter runs and missing sentence spacing.
	ErrorCorrection bool

	// ExtractMetadata detects dates, authors and version strings and appends
	// them to the document's tag set. It never alters the main text.
	ExtractMetadata bool
}

// DefaultQualityThreshold is the hybrid escalation threshold used when the
// product configuration does not set one.
const DefaultQualityThreshold = 75

// Config is the strongly-typed optimization configuration for a run.
// It is parsed and validated once at the boundary where product
// configuration enters the pipeline; it is never partially merged.
type Config struct {
	Mode  Mode
	Flags PatternFlags

	// LLMModel names the completion model used for enhancement. Informational
	// for provenance; the ai.Config carries the connection details.
	LLMModel string

	// QualityThreshold is the hybrid escalation threshold in [0,100].
	// Chunks whose estimated quality falls below it are sent to the LLM.
	QualityThreshold float64
}

// configJSON mirrors the product configuration wire format.
type configJSON struct {
	OptimizationMode   string `json:"optimization_mode"`
	PreprocessingFlags struct {
		EnhancedNormalization bool    `json:"enhanced_normalization"`
		ErrorCorrection       bool    `json:"error_correction"`
		ExtractMetadata       bool    `json:"extract_metadata"`
		LLMModel              string  `json:"llm_model"`
		LLMQualityThreshold   float64 `json:"llm_quality_threshold"`
	} `json:"preprocessing_flags"`
}

// DefaultConfig returns a Config with the pattern-only defaults.
func DefaultConfig() *Config {
	return &Config{
		Mode: ModePattern,
		Flags: PatternFlags{
			EnhancedNormalization: true,
			ErrorCorrection:       true,
			ExtractMetadata:       true,
		},
		QualityThreshold: DefaultQualityThreshold,
	}
}

// ParseConfig parses the optimization configuration JSON blob from product
// configuration into a validated Config. A zero llm_quality_threshold means
// unset and takes the default; explicit out-of-range values are rejected.
func ParseConfig(data []byte) (*Config, error) {
	var raw configJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedConfig, err)
	}

	mode, err := ParseMode(raw.OptimizationMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedConfig, err)
	}

	threshold := raw.PreprocessingFlags.LLMQualityThreshold
	if threshold == 0 {
		threshold = DefaultQualityThreshold
	}

	cfg := &Config{
		Mode: mode,
		Flags: PatternFlags{
			EnhancedNormalization: raw.PreprocessingFlags.EnhancedNormalization,
			ErrorCorrection:       raw.PreprocessingFlags.ErrorCorrection,
			ExtractMetadata:       raw.PreprocessingFlags.ExtractMetadata,
		},
		LLMModel:         raw.PreprocessingFlags.LLMModel,
		QualityThreshold: threshold,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is complete and in range.
func (c *Config) Validate() error {
	if c.Mode != ModePattern && c.Mode != ModeHybrid && c.Mode != ModeLLM {
		return fmt.Errorf("%w: mode value %d", ErrMalformedConfig, c.Mode)
	}
	if c.QualityThreshold < 0 || c.QualityThreshold > 100 {
		return fmt.Errorf("%w: quality threshold %v outside [0,100]",
			ErrMalformedConfig, c.QualityThreshold)
	}
	return nil
}
