package chunker

// fixedSegments produces exact rune windows of MaxSize, each subsequent
// window starting MaxSize-Overlap runes after the previous one. Only the
// final window may be shorter.
func (c *Chunker) fixedSegments(total int) []segment {
	step := c.config.MaxSize - c.config.Overlap

	var segments []segment
	for start := 0; start < total; start += step {
		end := start + c.config.MaxSize
		if end > total {
			end = total
		}
		segments = append(segments, segment{Start: start, End: end})
		if end >= total {
			break
		}
	}
	return segments
}
