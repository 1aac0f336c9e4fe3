package optimize

import (
	"strings"
	"unicode"

	"github.com/poiesic/kbforge/core"
)

// EstimateQuality is a fast heuristic estimate of text quality in [0,100].
// It is NOT the full quality scoring: it only looks at the
// whitespace-to-length ratio and the occurrence rate of known error tokens,
// which is cheap enough to run per chunk when deciding whether to escalate
// to the LLM.
//
// Safe for empty and very short input; never divides by zero.
func EstimateQuality(text string) float64 {
	runes := []rune(text)
	total := len(runes)
	if total == 0 {
		return 0
	}

	score := 100.0

	// Excess whitespace suggests broken extraction or OCR noise.
	// A ratio up to 15% is normal prose spacing.
	whitespace := 0
	for _, r := range runes {
		if unicode.IsSpace(r) {
			whitespace++
		}
	}
	wsRatio := float64(whitespace) / float64(total)
	if wsRatio > 0.15 {
		score -= (wsRatio - 0.15) * 300
	}

	// Known error tokens penalize in proportion to their density.
	words := strings.Fields(strings.ToLower(text))
	if len(words) > 0 {
		errorCount := 0
		for _, w := range words {
			w = strings.TrimFunc(w, func(r rune) bool {
				return !unicode.IsLetter(r) && !unicode.IsNumber(r)
			})
			if _, ok := typoFixes[w]; ok {
				errorCount++
			}
		}
		score -= float64(errorCount) / float64(len(words)) * 400
	}

	// Very short fragments carry little signal.
	if total < 20 {
		score -= 20
	}

	return core.ClampScore(score)
}
