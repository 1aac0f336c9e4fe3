package chunker

// semanticSegments splits on paragraph boundaries and merges consecutive
// paragraphs up to MaxSize. A paragraph that alone exceeds HardMax is split
// into sentences; only a single sentence longer than HardMax is ever cut
// mid-sentence.
func (c *Chunker) semanticSegments(runes []rune) []segment {
	paragraphs := paragraphSegments(runes, segment{Start: 0, End: len(runes)})

	var units []segment
	for _, p := range paragraphs {
		if p.len() <= c.config.HardMax {
			units = append(units, p)
			continue
		}
		for _, s := range sentenceSegments(runes, p) {
			if s.len() > c.config.HardMax {
				units = append(units, hardWindows(s, c.config.HardMax)...)
				continue
			}
			units = append(units, s)
		}
	}

	return c.meetMinSize(mergeAdjacent(units, c.config.MaxSize))
}

// meetMinSize enforces the lower bound: only the final segment of a document
// may stay below MinSize. An undersized segment folds into its successor
// while the pair fits within HardMax, then into the preceding output
// segment. When neither neighbor has room, the segment and its successor
// are re-cut into evenly sized windows so no short remainder survives
// mid-document.
func (c *Chunker) meetMinSize(segments []segment) []segment {
	if c.config.MinSize == 0 {
		return segments
	}

	var out []segment
	for i := 0; i < len(segments); i++ {
		s := segments[i]
		for i+1 < len(segments) &&
			s.len() < c.config.MinSize &&
			s.End == segments[i+1].Start &&
			s.len()+segments[i+1].len() <= c.config.HardMax {
			s.End = segments[i+1].End
			i++
		}
		if s.len() >= c.config.MinSize || i+1 == len(segments) {
			out = append(out, s)
			continue
		}

		if n := len(out) - 1; n >= 0 && out[n].End == s.Start &&
			out[n].len()+s.len() <= c.config.HardMax {
			out[n].End = s.End
			continue
		}

		next := segments[i+1]
		if s.End == next.Start {
			i++
			merged := segment{Start: s.Start, End: next.End}
			out = append(out, balancedWindows(merged, c.config.HardMax)...)
			continue
		}
		out = append(out, s)
	}
	return out
}
