package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMetadata(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantDate    string
		wantAuthor  string
		wantVersion string
	}{
		{
			name:     "ISO date",
			input:    "Published 2025-03-14 internally.",
			wantDate: "2025-03-14",
		},
		{
			name:     "slash date",
			input:    "Updated on 3/14/2025 after review.",
			wantDate: "3/14/2025",
		},
		{
			name:     "long month date",
			input:    "Released March 14, 2025 to all regions.",
			wantDate: "March 14, 2025",
		},
		{
			name:     "ISO preferred over slash",
			input:    "From 2025-01-02 until 3/4/2025.",
			wantDate: "2025-01-02",
		},
		{
			name:       "author with colon",
			input:      "Author: Jane Smith\nSome content follows.",
			wantAuthor: "Jane Smith",
		},
		{
			name:       "by line",
			input:      "Written by Robert O'Neill for the platform team.",
			wantAuthor: "Robert O'Neill",
		},
		{
			name:        "short version",
			input:       "Applies to v2.1.3 and later.",
			wantVersion: "v2.1.3",
		},
		{
			name:        "long version form",
			input:       "See Version 4.2 of the handbook.",
			wantVersion: "v4.2",
		},
		{
			name:  "nothing found",
			input: "Plain prose without any markers at all.",
		},
		{
			name:        "all three",
			input:       "Guide v1.0\nAuthor: Ana Lima\n2024-12-01",
			wantDate:    "2024-12-01",
			wantAuthor:  "Ana Lima",
			wantVersion: "v1.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, tags := ExtractMetadata(tt.input)

			assert.Equal(t, tt.wantDate, meta.Date)
			assert.Equal(t, tt.wantAuthor, meta.Author)
			assert.Equal(t, tt.wantVersion, meta.DocVersion)

			if tt.wantDate != "" {
				assert.Contains(t, tags, "date:"+tt.wantDate)
			}
			if tt.wantAuthor != "" {
				assert.Contains(t, tags, "author:"+tt.wantAuthor)
			}
			if tt.wantVersion != "" {
				assert.Contains(t, tags, "version:"+tt.wantVersion)
			}
			if tt.wantDate == "" && tt.wantAuthor == "" && tt.wantVersion == "" {
				assert.Empty(t, tags)
			}
		})
	}
}

func TestExtractMetadataDoesNotAlterInput(t *testing.T) {
	input := "Author: Jane Smith, 2025-03-14, v2.1"
	before := input
	ExtractMetadata(input)
	assert.Equal(t, before, input)
}
