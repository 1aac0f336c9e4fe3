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


// Package optimize implements the two-tier text optimization used by the
// pipeline: an always-on, free, deterministic pattern pass and a selectively
// invoked, paid LLM pass.
//
// The pattern pass (Normalize, CorrectErrors, ExtractMetadata) is pure and
// rule-based, so identical input always yields byte-identical output. The
// LLM pass goes through ai.Enhancer and only ever sees a single chunk.
//
// HybridOptimizer is the single dispatch point for the configured Mode:
//
//   - pattern: only the rule-based pass runs.
//   - hybrid: chunks whose EstimateQuality falls below the configured
//     threshold are escalated to the LLM; the rest keep pattern text.
//   - llm: every chunk is sent to the LLM.
//
// Enhancement failures always degrade to the pattern-optimized text with
// zero recorded cost; a provider outage can't lose a chunk.
package optimize
