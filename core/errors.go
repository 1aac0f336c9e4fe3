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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a RawDocument failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidVector indicates an EmbeddingVector failed validation.
	ErrInvalidVector = errors.New("invalid embedding vector")

	// ErrEmptyContent indicates a text field that must not be empty is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptySourcePath indicates the document SourcePath field is empty.
	ErrEmptySourcePath = errors.New("source path cannot be empty")

	// ErrInvalidSeq indicates a chunk sequence index is negative.
	ErrInvalidSeq = errors.New("chunk sequence index cannot be negative")

	// ErrInvalidOffsets indicates chunk offsets are inconsistent.
	ErrInvalidOffsets = errors.New("chunk end offset must be greater than start offset")

	// ErrInvalidMethod indicates an invalid OptimizationMethod value.
	ErrInvalidMethod = errors.New("invalid optimization method")

	// ErrEmptyModel indicates the embedding Model field is empty.
	ErrEmptyModel = errors.New("model name cannot be empty")

	// ErrVectorLengthMismatch indicates vector values do not match the
	// declared dimension.
	ErrVectorLengthMismatch = errors.New("vector length does not match declared dimension")
)
