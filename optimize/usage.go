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

import "sync"

// Usage accumulates per-run optimization telemetry across chunks.
// Chunk processing is parallelized, so additions are summed under a lock
// rather than last-write-wins.
type Usage struct {
	mu            sync.Mutex
	llmChunks     int
	patternChunks int
	totalCost     float64
	totalTokens   int
}

// UsageReport is a point-in-time copy of the accumulated counters.
type UsageReport struct {
	LLMChunks     int
	PatternChunks int
	TotalCost     float64
	TotalTokens   int
}

// AddLLM records a chunk that went through the LLM.
func (u *Usage) AddLLM(cost float64, tokens int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.llmChunks++
	u.totalCost += cost
	u.totalTokens += tokens
}

// AddPattern records a chunk that stayed pattern-only.
func (u *Usage) AddPattern() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.patternChunks++
}

// Report returns a snapshot of the counters.
func (u *Usage) Report() UsageReport {
	u.mu.Lock()
	defer u.mu.Unlock()
	return UsageReport{
		LLMChunks:     u.llmChunks,
		PatternChunks: u.patternChunks,
		TotalCost:     u.totalCost,
		TotalTokens:   u.totalTokens,
	}
}
