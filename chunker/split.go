package chunker

// Boundary splitters. Every splitter tiles its input segment exactly: the
// produced parts are adjacent and cover [Start, End) with no gaps, with
// separator runes attached to the preceding part. Tiling is what lets
// downstream consumers reconstruct the source text from chunk offsets.

// paragraphSegments splits on runs of two or more newlines.
func paragraphSegments(runes []rune, seg segment) []segment {
	var parts []segment
	start := seg.Start

	i := seg.Start
	for i < seg.End {
		if runes[i] != '\n' {
			i++
			continue
		}
		j := i + 1
		for j < seg.End && runes[j] == '\n' {
			j++
		}
		if j-i >= 2 && j < seg.End {
			parts = append(parts, segment{Start: start, End: j})
			start = j
		}
		i = j
	}

	if start < seg.End {
		parts = append(parts, segment{Start: start, End: seg.End})
	}
	return parts
}

// sentenceSegments splits after sentence-ending punctuation followed by
// whitespace. The whitespace stays with the preceding sentence.
func sentenceSegments(runes []rune, seg segment) []segment {
	var parts []segment
	start := seg.Start

	for i := seg.Start; i < seg.End; i++ {
		if !isSentenceEnd(runes[i]) {
			continue
		}
		j := i + 1
		for j < seg.End && isSentenceEnd(runes[j]) {
			j++
		}
		k := j
		for k < seg.End && isSpaceRune(runes[k]) {
			k++
		}
		if k > j && k < seg.End {
			parts = append(parts, segment{Start: start, End: k})
			start = k
			i = k - 1
		}
	}

	if start < seg.End {
		parts = append(parts, segment{Start: start, End: seg.End})
	}
	return parts
}

// headingSegments splits before lines starting with a markdown heading
// marker.
func headingSegments(runes []rune, seg segment) []segment {
	var parts []segment
	start := seg.Start

	for i := seg.Start + 1; i < seg.End; i++ {
		if runes[i] == '#' && runes[i-1] == '\n' && i > start {
			parts = append(parts, segment{Start: start, End: i})
			start = i
		}
	}

	if start < seg.End {
		parts = append(parts, segment{Start: start, End: seg.End})
	}
	return parts
}

// hardWindows cuts a segment into exact windows of at most size runes.
// Last-resort splitting for text with no usable boundaries.
func hardWindows(seg segment, size int) []segment {
	var parts []segment
	for start := seg.Start; start < seg.End; start += size {
		end := start + size
		if end > seg.End {
			end = seg.End
		}
		parts = append(parts, segment{Start: start, End: end})
	}
	return parts
}

// balancedWindows cuts a segment into the fewest windows that fit maxSize,
// sized as evenly as possible so none is needlessly short.
func balancedWindows(seg segment, maxSize int) []segment {
	length := seg.len()
	k := (length + maxSize - 1) / maxSize
	if k <= 1 {
		return []segment{seg}
	}

	base, rem := length/k, length%k
	parts := make([]segment, 0, k)
	start := seg.Start
	for i := 0; i < k; i++ {
		size := base
		if i < rem {
			size++
		}
		parts = append(parts, segment{Start: start, End: start + size})
		start += size
	}
	return parts
}

// mergeAdjacent greedily coalesces adjacent segments while the merged length
// stays within maxSize. Input segments must tile; the output tiles too.
func mergeAdjacent(segments []segment, maxSize int) []segment {
	var out []segment
	var cur segment

	for _, s := range segments {
		if cur.len() == 0 {
			cur = s
			continue
		}
		if cur.End == s.Start && cur.len()+s.len() <= maxSize {
			cur.End = s.End
			continue
		}
		out = append(out, cur)
		cur = s
	}
	if cur.len() > 0 {
		out = append(out, cur)
	}
	return out
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}
