// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateDocument validates a RawDocument according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - SourcePath must not be empty
//
// NOT validated:
//   - Detected metadata (empty fields mean nothing was found)
//   - Tags (may be empty until extraction runs)
//   - ID (0 is valid before content hashing)
func ValidateDocument(doc *RawDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	if doc.SourcePath == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptySourcePath)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Seq must not be negative
//   - EndOffset must be greater than StartOffset
//
// NOT validated (populated by per-chunk optimization):
//   - Method, Cost, QualityScore
//   - Tags
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	if chunk.Seq < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrInvalidSeq)
	}

	if chunk.EndOffset <= chunk.StartOffset {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrInvalidOffsets)
	}

	return nil
}

// ValidateEmbeddingVector validates an EmbeddingVector according to domain rules.
//
// Validation rules:
//   - Model must not be empty
//   - Values length must equal Dimension
func ValidateEmbeddingVector(vec *EmbeddingVector) error {
	if vec == nil {
		return fmt.Errorf("%w: vector is nil", ErrInvalidVector)
	}

	if vec.Model == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVector, ErrEmptyModel)
	}

	if len(vec.Values) != vec.Dimension {
		return fmt.Errorf("%w: %w: declared %d, got %d",
			ErrInvalidVector, ErrVectorLengthMismatch, vec.Dimension, len(vec.Values))
	}

	return nil
}

// ValidateMethod validates that an OptimizationMethod has a valid value.
func ValidateMethod(method OptimizationMethod) error {
	if method != MethodPattern && method != MethodHybrid && method != MethodLLM {
		return fmt.Errorf("%w: value %d", ErrInvalidMethod, method)
	}
	return nil
}
