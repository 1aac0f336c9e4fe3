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

import "time"

// StageStatus is the outcome of one pipeline stage or of a whole run.
type StageStatus int

const (
	// StageSuccess means every unit of work completed.
	StageSuccess StageStatus = iota + 1
	// StageFailed means no unit of work completed.
	StageFailed
	// StagePartial means some documents succeeded and some failed.
	StagePartial
)

// String returns the wire name of the status.
func (s StageStatus) String() string {
	switch s {
	case StageSuccess:
		return "success"
	case StageFailed:
		return "failed"
	case StagePartial:
		return "partial"
	default:
		return "unknown"
	}
}

// StageReport is what one stage hands back to the orchestration boundary.
type StageReport struct {
	Stage     string
	Status    StageStatus
	Metrics   map[string]float64
	Artifacts map[string]string
	Elapsed   time.Duration
}

// DocumentOutcome records how one document fared across the run.
// Per-document failures are isolated: a failed document never aborts its
// siblings, it just shows up here.
type DocumentOutcome struct {
	DocumentID ID
	SourcePath string
	Chunks     int
	Failed     bool
	Error      string
}

// RunReport is the full result of one pipeline run over a
// (product, version) pair.
type RunReport struct {
	RunID     string
	ProductID string
	Version   string

	Status    StageStatus // success, failed, or partial (mixed)
	Stages    []StageReport
	Documents []DocumentOutcome

	Metrics *QualityMetrics // run-level aggregate, nil if scoring never ran
	Policy  *PolicyResult   // nil if evaluation never ran

	StartedAt  time.Time
	FinishedAt time.Time
}
