package optimize

import (
	"regexp"

	"github.com/poiesic/kbforge/core"
)

// Metadata extraction is regex-only and read-only: it appends findings to a
// tag set and never touches the main text. Finding nothing is not an error.

var (
	reDateISO   = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	reDateSlash = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
	reDateLong  = regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b`)

	// Author names never cross a line break, so spacing inside the capture is
	// restricted to spaces and tabs.
	reAuthor = regexp.MustCompile(`(?:By|Author|Written by|Created by)[: \t][ \t]*([A-Z][A-Za-z.'-]+(?:[ \t]+[A-Z][A-Za-z.'-]+){0,3})`)

	reVersionShort = regexp.MustCompile(`\bv\d+\.\d+(?:\.\d+)?\b`)
	reVersionLong  = regexp.MustCompile(`\b[Vv]ersion\s+(\d+(?:\.\d+){1,3})\b`)
)

// ExtractMetadata scans text for a date, an author and a version string.
// Detected values are returned both as structured metadata and as tags of
// the form "date:...", "author:...", "version:..." for the tag set.
func ExtractMetadata(text string) (core.DocumentMetadata, []string) {
	var meta core.DocumentMetadata
	var tags []string

	if date := findDate(text); date != "" {
		meta.Date = date
		tags = append(tags, "date:"+date)
	}

	if m := reAuthor.FindStringSubmatch(text); m != nil {
		meta.Author = m[1]
		tags = append(tags, "author:"+m[1])
	}

	if version := findVersion(text); version != "" {
		meta.DocVersion = version
		tags = append(tags, "version:"+version)
	}

	return meta, tags
}

func findDate(text string) string {
	if m := reDateISO.FindString(text); m != "" {
		return m
	}
	if m := reDateLong.FindString(text); m != "" {
		return m
	}
	return reDateSlash.FindString(text)
}

func findVersion(text string) string {
	if m := reVersionShort.FindString(text); m != "" {
		return m
	}
	if m := reVersionLong.FindStringSubmatch(text); m != nil {
		return "v" + m[1]
	}
	return ""
}
