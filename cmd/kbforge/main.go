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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/philippgille/chromem-go"
	"github.com/poiesic/kbforge/ai"
	"github.com/poiesic/kbforge/ai/openai"
	"github.com/poiesic/kbforge/chunker"
	"github.com/poiesic/kbforge/core"
	"github.com/poiesic/kbforge/embed"
	"github.com/poiesic/kbforge/index"
	"github.com/poiesic/kbforge/optimize"
	"github.com/poiesic/kbforge/pipeline"
	"github.com/poiesic/kbforge/policy"
	"github.com/poiesic/kbforge/quality"
	"github.com/poiesic/kbforge/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	// Thresholds and provider credentials can come from a local .env file.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "kbforge",
		Usage: "Document processing pipeline for knowledgebase construction",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "process",
				Usage:     "Process documents through optimization, scoring, embedding and indexing",
				ArgsUsage: "FILE [FILE...]",
				Action:    processCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "vector-db",
						Usage: "Path to the vector store directory (in-memory if empty)",
					},
					&cli.StringFlag{
						Name:  "collection",
						Usage: "Vector store collection name",
						Value: "knowledgebase",
					},
					&cli.StringFlag{
						Name:     "product",
						Aliases:  []string{"p"},
						Usage:    "Product the documents belong to",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "version",
						Aliases:  []string{"v"},
						Usage:    "Knowledgebase version being built",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "llm-host",
						Usage: "Enhancement service host URL (defaults to embedding-host)",
					},
					&cli.StringFlag{
						Name:  "llm-model",
						Usage: "Enhancement model name",
						Value: "qwen2.5:3b",
					},
					&cli.StringFlag{
						Name:  "optimize-config",
						Usage: "Path to the optimization configuration JSON",
					},
					&cli.StringFlag{
						Name:  "chunking-config",
						Usage: "Path to the chunking configuration JSON",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size (defaults to half the CPUs)",
					},
				},
			},
			{
				Name:   "score",
				Usage:  "Show the stored quality metrics and policy verdict for a version",
				Action: scoreCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "product",
						Aliases:  []string{"p"},
						Usage:    "Product to look up",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "version",
						Aliases:  []string{"v"},
						Usage:    "Knowledgebase version to look up",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func processCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() == 0 {
		return fmt.Errorf("at least one document file is required")
	}

	docs, err := loadDocuments(c.Args().Slice())
	if err != nil {
		return err
	}

	optimizeConfig, err := loadOptimizeConfig(c.String("optimize-config"))
	if err != nil {
		return err
	}

	chunkingConfig, err := loadChunkingConfig(c.String("chunking-config"))
	if err != nil {
		return err
	}

	llmHost := c.String("llm-host")
	if llmHost == "" {
		llmHost = c.String("embedding-host")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithEnhancerHost(llmHost),
		ai.WithEnhancerModel(c.String("llm-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	// Open artifact storage
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create chunk repository: %w", err)
	}
	metricsRepo, err := badger.NewMetricsRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create metrics repository: %w", err)
	}

	// Open vector storage
	var vectorDB *chromem.DB
	if path := c.String("vector-db"); path != "" {
		vectorDB, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return fmt.Errorf("failed to open vector store: %w", err)
		}
	} else {
		vectorDB = chromem.NewDB()
	}

	// Assemble the stages
	optimizer, err := optimize.NewHybridOptimizer(optimizeConfig, provider.Enhancer())
	if err != nil {
		return fmt.Errorf("failed to create optimizer: %w", err)
	}

	chunkr, err := chunker.New(chunkingConfig)
	if err != nil {
		return fmt.Errorf("failed to create chunker: %w", err)
	}

	embedder, err := embed.New(provider.Embedder(), c.String("embedding-model"))
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	collection := c.String("collection")
	indexer, err := index.NewIndexer(vectorDB, collection)
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}

	thresholds, err := policy.LoadThresholds()
	if err != nil {
		return fmt.Errorf("failed to load policy thresholds: %w", err)
	}
	evaluator, err := policy.NewEvaluator(thresholds)
	if err != nil {
		return fmt.Errorf("failed to create policy evaluator: %w", err)
	}

	opts := []pipeline.Option{
		pipeline.WithPayload(index.Payload{
			CollectionID: collection,
			IndexScope:   index.ScopeInternal,
		}),
	}
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, pipeline.WithPoolSize(size))
	}

	p, err := pipeline.NewPipeline(optimizer, chunkr, quality.NewScorer(),
		embedder, indexer, evaluator, chunkRepo, metricsRepo, opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer p.Release()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Collection: %s\n", collection)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintf(os.Stderr, "Documents: %d\n", len(docs))
	fmt.Fprintln(os.Stderr)

	report, err := p.Run(ctx, c.String("product"), c.String("version"), docs)
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	printReport(report)

	if report.Status == core.StageFailed {
		return fmt.Errorf("no document was processed successfully")
	}
	return nil
}

func scoreCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	metricsRepo, err := badger.NewMetricsRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create metrics repository: %w", err)
	}

	metrics, err := metricsRepo.GetMetrics(ctx, c.String("product"), c.String("version"))
	if err != nil {
		return fmt.Errorf("no metrics for %s %s: %w", c.String("product"), c.String("version"), err)
	}

	thresholds, err := policy.LoadThresholds()
	if err != nil {
		return fmt.Errorf("failed to load policy thresholds: %w", err)
	}
	evaluator, err := policy.NewEvaluator(thresholds)
	if err != nil {
		return fmt.Errorf("failed to create policy evaluator: %w", err)
	}

	result := evaluator.Evaluate(metrics)

	fmt.Printf("Product:  %s\n", metrics.ProductID)
	fmt.Printf("Version:  %s\n", metrics.Version)
	fmt.Printf("Computed: %s\n\n", metrics.ComputedAt.Format("2006-01-02 15:04:05 MST"))

	for name, value := range metrics.Dimensions {
		fmt.Printf("  %-20s %6.2f\n", name, value)
	}
	fmt.Printf("  %-20s %6.2f\n\n", "trust_score", metrics.TrustScore)

	for _, check := range result.Checks {
		mark := "ok"
		switch {
		case !check.Passed:
			mark = "FAIL"
		case check.Borderline:
			mark = "warn"
		}
		fmt.Printf("  [%-4s] %-20s %6.2f (threshold %.2f)\n",
			mark, check.Name, check.Value, check.Threshold)
	}
	fmt.Printf("\nVerdict: %s\n", result.Status)

	return nil
}

// loadDocuments reads each file into a RawDocument. Document IDs derive
// from the source path, so reprocessing the same file targets the same
// stored chunks.
func loadDocuments(paths []string) ([]core.RawDocument, error) {
	docs := make([]core.RawDocument, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		docs = append(docs, core.RawDocument{
			Id:         core.IDFromContent(path),
			SourcePath: path,
			Text:       string(data),
		})
	}
	return docs, nil
}

func loadOptimizeConfig(path string) (*optimize.Config, error) {
	if path == "" {
		return optimize.DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read optimize config: %w", err)
	}
	config, err := optimize.ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid optimize config: %w", err)
	}
	return config, nil
}

func loadChunkingConfig(path string) (*chunker.Config, error) {
	if path == "" {
		return chunker.DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chunking config: %w", err)
	}
	config, err := chunker.ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid chunking config: %w", err)
	}
	return config, nil
}

func printReport(report *core.RunReport) {
	fmt.Printf("Run %s: %s\n\n", report.RunID, report.Status)

	for _, stage := range report.Stages {
		fmt.Printf("  %-12s %-8s %s\n", stage.Stage, stage.Status, stage.Elapsed.Round(time.Millisecond))
	}
	fmt.Println()

	for _, doc := range report.Documents {
		if doc.Failed {
			fmt.Printf("  FAILED %s: %s\n", doc.SourcePath, doc.Error)
			continue
		}
		fmt.Printf("  ok     %s (%d chunks)\n", doc.SourcePath, doc.Chunks)
	}

	if report.Metrics != nil {
		fmt.Printf("\nTrust score: %.2f\n", report.Metrics.TrustScore)
	}
	if report.Policy != nil {
		fmt.Printf("Verdict: %s\n", report.Policy.Status)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
