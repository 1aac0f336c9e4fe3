package chunker

// Splitting hierarchy for the recursive strategy, coarsest first.
const (
	levelHeading = iota
	levelParagraph
	levelSentence
	levelWindow
)

// recursiveSegments splits hierarchically: headings, then paragraphs, then
// sentences, recursing into any part still over MaxSize. The resulting
// pieces are then re-merged up to MaxSize so that fine-grained splits near a
// boundary do not produce a tail of tiny chunks.
func (c *Chunker) recursiveSegments(runes []rune) []segment {
	parts := c.splitRecursive(runes, segment{Start: 0, End: len(runes)}, levelHeading)
	return c.meetMinSize(mergeAdjacent(parts, c.config.MaxSize))
}

func (c *Chunker) splitRecursive(runes []rune, seg segment, level int) []segment {
	if seg.len() <= c.config.MaxSize {
		return []segment{seg}
	}

	var parts []segment
	switch level {
	case levelHeading:
		parts = headingSegments(runes, seg)
	case levelParagraph:
		parts = paragraphSegments(runes, seg)
	case levelSentence:
		parts = sentenceSegments(runes, seg)
	default:
		return hardWindows(seg, c.config.MaxSize)
	}

	// No boundary at this level; descend.
	if len(parts) <= 1 {
		return c.splitRecursive(runes, seg, level+1)
	}

	var out []segment
	for _, p := range parts {
		out = append(out, c.splitRecursive(runes, p, level+1)...)
	}
	return out
}
