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


package optimize

import "errors"

var (
	// ErrUnknownMode indicates an optimization mode name that is not
	// pattern, hybrid or llm.
	ErrUnknownMode = errors.New("unknown optimization mode")

	// ErrMalformedConfig indicates the optimization configuration blob
	// failed to parse or validate.
	ErrMalformedConfig = errors.New("malformed optimization config")

	// ErrEnhancerRequired indicates hybrid or llm mode was configured
	// without an enhancer.
	ErrEnhancerRequired = errors.New("enhancer required for hybrid and llm modes")
)
