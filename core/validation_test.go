package core

import (
	"errors"
	"testing"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *RawDocument
		wantErr error
	}{
		{
			name: "valid document",
			doc: &RawDocument{
				SourcePath: "docs/guide.txt",
				Text:       "Some extracted text",
			},
			wantErr: nil,
		},
		{
			name: "valid document with metadata",
			doc: &RawDocument{
				SourcePath: "docs/guide.txt",
				Text:       "Some extracted text",
				Detected:   DocumentMetadata{Author: "Jane Doe", Date: "2024-01-15"},
				Tags:       []string{"author:Jane Doe"},
			},
			wantErr: nil,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name: "empty text",
			doc: &RawDocument{
				SourcePath: "docs/guide.txt",
			},
			wantErr: ErrEmptyContent,
		},
		{
			name: "empty source path",
			doc: &RawDocument{
				Text: "Some extracted text",
			},
			wantErr: ErrEmptySourcePath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *Chunk
		wantErr error
	}{
		{
			name: "valid chunk",
			chunk: &Chunk{
				DocumentID:  1,
				Seq:         0,
				Text:        "chunk text",
				StartOffset: 0,
				EndOffset:   10,
			},
			wantErr: nil,
		},
		{
			name: "valid chunk without optimization fields",
			chunk: &Chunk{
				DocumentID:  1,
				Seq:         3,
				Text:        "chunk text",
				StartOffset: 100,
				EndOffset:   110,
			},
			wantErr: nil,
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name: "empty text",
			chunk: &Chunk{
				Seq:       0,
				EndOffset: 10,
			},
			wantErr: ErrEmptyContent,
		},
		{
			name: "negative sequence",
			chunk: &Chunk{
				Seq:       -1,
				Text:      "chunk text",
				EndOffset: 10,
			},
			wantErr: ErrInvalidSeq,
		},
		{
			name: "inverted offsets",
			chunk: &Chunk{
				Seq:         0,
				Text:        "chunk text",
				StartOffset: 10,
				EndOffset:   5,
			},
			wantErr: ErrInvalidOffsets,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmbeddingVector(t *testing.T) {
	tests := []struct {
		name    string
		vec     *EmbeddingVector
		wantErr error
	}{
		{
			name: "valid vector",
			vec: &EmbeddingVector{
				ChunkID:   1,
				Model:     "text-embedding-3-small",
				Dimension: 3,
				Values:    []float32{0.1, 0.2, 0.3},
			},
			wantErr: nil,
		},
		{
			name:    "nil vector",
			vec:     nil,
			wantErr: ErrInvalidVector,
		},
		{
			name: "empty model",
			vec: &EmbeddingVector{
				Dimension: 1,
				Values:    []float32{0.1},
			},
			wantErr: ErrEmptyModel,
		},
		{
			name: "length mismatch",
			vec: &EmbeddingVector{
				Model:     "text-embedding-3-small",
				Dimension: 4,
				Values:    []float32{0.1, 0.2, 0.3},
			},
			wantErr: ErrVectorLengthMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmbeddingVector(tt.vec)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateEmbeddingVector() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateEmbeddingVector() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMethod(t *testing.T) {
	for _, m := range []OptimizationMethod{MethodPattern, MethodHybrid, MethodLLM} {
		if err := ValidateMethod(m); err != nil {
			t.Errorf("ValidateMethod(%v) unexpected error: %v", m, err)
		}
	}

	if err := ValidateMethod(OptimizationMethod(0)); !errors.Is(err, ErrInvalidMethod) {
		t.Errorf("ValidateMethod(0) error = %v, want ErrInvalidMethod", err)
	}
}
