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


package embed

import "errors"

var (
	// ErrUnknownModel indicates a model name with no registered dimension.
	ErrUnknownModel = errors.New("unknown embedding model")

	// ErrDimensionMismatch indicates a returned vector whose length differs
	// from the model's registered dimension. Fatal for the affected batch;
	// never silently coerced.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrCountMismatch indicates the provider returned a different number of
	// vectors than texts sent.
	ErrCountMismatch = errors.New("embedding count mismatch")

	// ErrInvalidMaxAttempts indicates a non-positive retry attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than 0")
)
