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

package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/kbforge/core"
	"github.com/poiesic/kbforge/index"
	"github.com/poiesic/kbforge/quality"
)

// docState carries one document through the run. Each worker touches only
// its own state, so no locking is needed beyond the stage barriers.
type docState struct {
	doc     core.RawDocument
	meta    core.DocumentMetadata
	tags    []string
	chunks  []core.Chunk
	vectors []core.EmbeddingVector
	metrics core.QualityMetrics
	err     error
}

func (s *docState) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// live reports whether the document still has work in front of it:
// not failed and with at least one chunk.
func (s *docState) live() bool {
	return s.err == nil && len(s.chunks) > 0
}

// Run processes the documents for one (product, version) pair through
// every stage and returns the full run report. A per-document failure is
// recorded in the report, never returned as Run's error; Run itself only
// errors on invalid arguments or cancellation.
func (p *Pipeline) Run(ctx context.Context, productID, version string, docs []core.RawDocument) (*core.RunReport, error) {
	if productID == "" {
		return nil, ErrProductRequired
	}
	if version == "" {
		return nil, ErrVersionRequired
	}

	report := &core.RunReport{
		RunID:     uuid.NewString(),
		ProductID: productID,
		Version:   version,
		StartedAt: time.Now().UTC(),
	}

	logger := p.logger.With("run", report.RunID, "product", productID, "version", version)
	logger.Info("starting run", "documents", len(docs))

	states := make([]*docState, len(docs))
	for i, doc := range docs {
		states[i] = &docState{doc: doc}
	}

	stages := []struct {
		name string
		run  func(context.Context, []*docState, *core.RunReport) core.StageReport
	}{
		{"prepare", p.stagePrepare},
		{"optimize", p.stageOptimize},
		{"score", p.stageScore},
		{"embed_index", p.stageEmbedIndex},
		{"evaluate", p.stageEvaluate},
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			logger.Warn("run cancelled", "before_stage", stage.name)
			p.finish(report, states)
			return report, err
		}

		started := time.Now()
		sr := stage.run(ctx, states, report)
		sr.Stage = stage.name
		sr.Elapsed = time.Since(started)
		report.Stages = append(report.Stages, sr)

		logger.Info("stage complete", "stage", stage.name,
			"status", sr.Status.String(), "elapsed", sr.Elapsed)
	}

	p.finish(report, states)
	logger.Info("run complete", "status", report.Status.String())
	return report, nil
}

// finish fills in the per-document outcomes and the overall status.
func (p *Pipeline) finish(report *core.RunReport, states []*docState) {
	report.FinishedAt = time.Now().UTC()

	failed := 0
	for _, st := range states {
		outcome := core.DocumentOutcome{
			DocumentID: st.doc.Id,
			SourcePath: st.doc.SourcePath,
			Chunks:     len(st.chunks),
		}
		if st.err != nil {
			outcome.Failed = true
			outcome.Error = st.err.Error()
			failed++
		}
		report.Documents = append(report.Documents, outcome)
	}

	report.Status = mixedStatus(failed, len(states))
}

// liveStates returns the documents that still have work in front of them.
func liveStates(states []*docState) []*docState {
	var live []*docState
	for _, st := range states {
		if st.live() {
			live = append(live, st)
		}
	}
	return live
}

// mixedStatus folds per-unit failures into a stage or run status.
func mixedStatus(failed, total int) core.StageStatus {
	switch {
	case failed == 0:
		return core.StageSuccess
	case failed == total:
		return core.StageFailed
	default:
		return core.StagePartial
	}
}

// stagePrepare runs the document-level pattern pass, metadata extraction
// and chunking. This stage is cheap and runs sequentially.
func (p *Pipeline) stagePrepare(_ context.Context, states []*docState, _ *core.RunReport) core.StageReport {
	failed := 0
	totalChunks := 0

	for _, st := range states {
		text, meta, tags := p.optimizer.OptimizeDocument(st.doc.Text)
		st.meta = mergeMetadata(st.doc.Detected, meta)
		st.tags = mergeTags(st.doc.Tags, tags)

		chunks, err := p.chunker.Chunk(st.doc.Id, text)
		if err != nil {
			p.logger.Warn("chunking failed", "document", st.doc.SourcePath, "err", err)
			st.fail(err)
			failed++
			continue
		}

		for i := range chunks {
			chunks[i].Tags = st.tags
		}
		st.chunks = chunks
		totalChunks += len(chunks)
	}

	return core.StageReport{
		Status: mixedStatus(failed, len(states)),
		Metrics: map[string]float64{
			"documents": float64(len(states)),
			"chunks":    float64(totalChunks),
			"failures":  float64(failed),
		},
	}
}

// stageOptimize runs per-chunk optimization across all live documents on
// the worker pool, then persists each document's chunk set.
func (p *Pipeline) stageOptimize(ctx context.Context, states []*docState, _ *core.RunReport) core.StageReport {
	before := p.optimizer.Usage()
	entered := liveStates(states)

	var wg sync.WaitGroup
	for _, st := range entered {
		// Per-chunk error slots; each worker writes only its own.
		errs := make([]error, len(st.chunks))
		for i := range st.chunks {
			wg.Add(1)
			chunk := &st.chunks[i]
			slot := &errs[i]
			p.submit(func() {
				defer wg.Done()
				*slot = p.optimizer.OptimizeChunk(ctx, chunk)
			})
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				st.fail(err)
				break
			}
		}
	}

	failed := 0
	for _, st := range entered {
		if st.err != nil {
			failed++
			continue
		}

		refs := make([]*core.Chunk, len(st.chunks))
		for i := range st.chunks {
			refs[i] = &st.chunks[i]
		}
		if err := p.chunkRepo.PutChunks(ctx, refs...); err != nil {
			p.logger.Error("persisting chunks failed", "document", st.doc.SourcePath, "err", err)
			st.fail(err)
			failed++
		}
	}

	after := p.optimizer.Usage()
	return core.StageReport{
		Status: mixedStatus(failed, len(entered)),
		Metrics: map[string]float64{
			"llm_chunks":     float64(after.LLMChunks - before.LLMChunks),
			"pattern_chunks": float64(after.PatternChunks - before.PatternChunks),
			"llm_cost":       after.TotalCost - before.TotalCost,
			"failures":       float64(failed),
		},
	}
}

// stageScore scores each live document's chunk set, aggregates the
// dimensions into the run-level metrics and persists them.
func (p *Pipeline) stageScore(ctx context.Context, states []*docState, report *core.RunReport) core.StageReport {
	scored := 0
	for _, st := range states {
		if !st.live() {
			continue
		}
		st.metrics = p.scorer.Score(quality.Input{
			ProductID: report.ProductID,
			Version:   report.Version,
			Chunks:    st.chunks,
			Metadata:  st.meta,
		})
		scored++
	}

	if scored == 0 {
		return core.StageReport{Status: core.StageFailed,
			Metrics: map[string]float64{"documents": 0}}
	}

	aggregate := p.aggregateMetrics(report.ProductID, report.Version, states)
	report.Metrics = aggregate

	stage := core.StageReport{
		Status: core.StageSuccess,
		Metrics: map[string]float64{
			"documents":   float64(scored),
			"trust_score": aggregate.TrustScore,
		},
	}
	for name, value := range aggregate.Dimensions {
		stage.Metrics[name] = value
	}

	if err := p.metricsRepo.PutMetrics(ctx, aggregate); err != nil {
		p.logger.Error("persisting metrics failed", "err", err)
		stage.Status = core.StagePartial
	}
	return stage
}

// aggregateMetrics averages the per-document dimension scores into one
// run-level QualityMetrics record.
func (p *Pipeline) aggregateMetrics(productID, version string, states []*docState) *core.QualityMetrics {
	dims := make(map[string]float64)
	trust := 0.0
	n := 0

	for _, st := range states {
		if !st.live() {
			continue
		}
		for name, value := range st.metrics.Dimensions {
			dims[name] += value
		}
		trust += st.metrics.TrustScore
		n++
	}

	for name := range dims {
		dims[name] = core.ClampScore(dims[name] / float64(n))
	}

	return &core.QualityMetrics{
		ProductID:  productID,
		Version:    version,
		Dimensions: dims,
		TrustScore: core.ClampScore(trust / float64(n)),
		ComputedAt: time.Now().UTC(),
	}
}

// stageEmbedIndex embeds each live document's chunks on the worker pool,
// then upserts the vectors sequentially. Embedding is all-or-nothing per
// document: a batch failure aborts the document, never leaves a partial
// vector set.
func (p *Pipeline) stageEmbedIndex(ctx context.Context, states []*docState, report *core.RunReport) core.StageReport {
	entered := liveStates(states)

	var wg sync.WaitGroup
	for _, st := range entered {
		wg.Add(1)
		state := st
		p.submit(func() {
			defer wg.Done()
			vectors, err := p.embedder.EmbedChunks(ctx, state.chunks)
			if err != nil {
				p.logger.Warn("embedding failed", "document", state.doc.SourcePath, "err", err)
				state.fail(err)
				return
			}
			state.vectors = vectors
		})
	}
	wg.Wait()

	failed, upserted := 0, 0
	for _, st := range entered {
		if st.err != nil {
			failed++
			continue
		}

		result, err := p.indexer.Upsert(ctx, st.chunks, st.vectors, p.documentPayload(report, st))
		if err != nil {
			p.logger.Error("indexing failed", "document", st.doc.SourcePath, "err", err)
			st.fail(err)
			failed++
			continue
		}
		upserted += result.Upserted
	}

	return core.StageReport{
		Status: mixedStatus(failed, len(entered)),
		Metrics: map[string]float64{
			"vectors":   float64(upserted),
			"dimension": float64(p.embedder.Dimension()),
			"failures":  float64(failed),
		},
		Artifacts: map[string]string{
			"model": p.embedder.Model(),
		},
	}
}

// documentPayload fills the per-document fields of the base payload.
func (p *Pipeline) documentPayload(report *core.RunReport, st *docState) index.Payload {
	payload := p.payload
	payload.ProductID = report.ProductID
	payload.Version = report.Version
	payload.SourceFile = st.doc.SourcePath
	if payload.Source == "" {
		payload.Source = st.meta.Source
	}
	payload.TrustScore = st.metrics.TrustScore
	return payload
}

// stageEvaluate runs the policy gate over the run-level metrics. A FAILED
// verdict is an expected terminal state, not a stage failure.
func (p *Pipeline) stageEvaluate(_ context.Context, _ []*docState, report *core.RunReport) core.StageReport {
	if report.Metrics == nil {
		return core.StageReport{Status: core.StageFailed}
	}

	result := p.evaluator.Evaluate(report.Metrics)
	report.Policy = result

	return core.StageReport{
		Status: core.StageSuccess,
		Metrics: map[string]float64{
			"checks": float64(len(result.Checks)),
		},
		Artifacts: map[string]string{
			"verdict": result.Status.String(),
		},
	}
}

// mergeMetadata prefers fields the caller supplied over fields detected
// in the text.
func mergeMetadata(supplied, detected core.DocumentMetadata) core.DocumentMetadata {
	merged := supplied
	if merged.Date == "" {
		merged.Date = detected.Date
	}
	if merged.Author == "" {
		merged.Author = detected.Author
	}
	if merged.DocVersion == "" {
		merged.DocVersion = detected.DocVersion
	}
	if merged.Section == "" {
		merged.Section = detected.Section
	}
	if merged.Source == "" {
		merged.Source = detected.Source
	}
	return merged
}

// mergeTags unions the supplied and detected tag sets, preserving order
// of first appearance.
func mergeTags(supplied, detected []string) []string {
	seen := make(map[string]struct{}, len(supplied)+len(detected))
	var merged []string
	for _, tag := range append(append([]string{}, supplied...), detected...) {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		merged = append(merged, tag)
	}
	return merged
}
