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
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/scholar"
	"github.com/poiesic/scholar/ai"
	"github.com/poiesic/scholar/core"
	"github.com/poiesic/scholar/ingestion"
	"github.com/poiesic/scholar/research"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:   "scholar",
		Usage:  "Hybrid retrieval and multi-agent research over a document corpus",
		Before: setupLogger,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest text documents into the corpus",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Target chunk size in characters",
						Value: 1000,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Character overlap between adjacent chunks",
						Value: 200,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Run a hybrid retrieval query against the corpus",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:    "top",
						Aliases: []string{"k"},
						Usage:   "Number of results to return",
						Value:   5,
					},
					&cli.StringFlag{
						Name:  "rerank-host",
						Usage: "Cross-encoder rerank service host URL (optional)",
					},
				),
			},
			{
				Name:      "research",
				Usage:     "Run a multi-agent research session",
				ArgsUsage: "QUERY",
				Action:    researchCommand,
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Number of worker agents",
						Value:   4,
					},
					&cli.StringFlag{
						Name:    "web-search-key",
						Usage:   "Tavily API key; enables web search when set",
						EnvVars: []string{"TAVILY_API_KEY"},
					},
					&cli.StringFlag{
						Name:  "rerank-host",
						Usage: "Cross-encoder rerank service host URL (optional)",
					},
					&cli.BoolFlag{
						Name:  "estimate",
						Usage: "Print the cost estimate and exit without running",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// commonFlags returns the flags shared by every command that opens a
// corpus and talks to AI services.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "OpenAI-compatible service host URL for chat and embeddings",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "lead-model",
			Usage: "Model used for planning and synthesis",
		},
		&cli.StringFlag{
			Name:  "worker-model",
			Usage: "Model used for subtask execution",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Model used for text embeddings",
		},
		&cli.StringFlag{
			Name:  "token",
			Usage: "API token for the AI services",
			Value: "none",
		},
	}
}

func buildAIConfig(c *cli.Context) (*ai.Config, error) {
	opts := []ai.ConfigOption{
		ai.WithHost(c.String("host")),
		ai.WithToken(c.String("token")),
	}
	if model := c.String("lead-model"); model != "" {
		opts = append(opts, ai.WithLeadModel(model))
	}
	if model := c.String("worker-model"); model != "" {
		opts = append(opts, ai.WithWorkerModel(model))
	}
	if model := c.String("embedding-model"); model != "" {
		opts = append(opts, ai.WithEmbeddingModel(model))
	}
	if c.IsSet("rerank-host") {
		opts = append(opts, ai.WithRerankHost(c.String("rerank-host")))
	}

	config := ai.NewConfig(opts...)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return config, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() == 0 {
		return fmt.Errorf("at least one file to ingest is required")
	}

	config, err := buildAIConfig(c)
	if err != nil {
		return err
	}

	lib, err := scholar.NewLibrary(c.String("db"), scholar.WithAIConfig(config))
	if err != nil {
		return fmt.Errorf("failed to open corpus: %w", err)
	}
	defer lib.Close()

	chunker := ingestion.NewChunker(
		ingestion.WithChunkSize(c.Int("chunk-size")),
		ingestion.WithChunkOverlap(c.Int("chunk-overlap")),
	)
	pipeline, err := lib.NewIngestionPipeline(ingestion.WithChunker(chunker))
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	for _, path := range c.Args().Slice() {
		text, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		source := filepath.Base(path)
		added, err := pipeline.IngestDocument(ctx, source, string(text), nil)
		if err != nil {
			return fmt.Errorf("failed to ingest %s: %w", path, err)
		}
		fmt.Fprintf(os.Stderr, "%s: %d chunks\n", source, len(added))
	}

	// Wait for embedding to finish before the process exits
	pipeline.Wait()
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a search query is required")
	}

	config, err := buildAIConfig(c)
	if err != nil {
		return err
	}

	lib, err := scholar.NewLibrary(c.String("db"), scholar.WithAIConfig(config))
	if err != nil {
		return fmt.Errorf("failed to open corpus: %w", err)
	}
	defer lib.Close()

	pipeline, err := lib.NewRetrievalPipeline(ctx)
	if err != nil {
		return fmt.Errorf("failed to create retrieval pipeline: %w", err)
	}

	finalK := c.Int("top")
	candidates, err := pipeline.Retrieve(ctx, query, finalK*4, finalK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(candidates) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, candidate := range candidates {
		fmt.Printf("%d. [%.4f] %s\n", i+1, candidate.Score, candidate.Metadata["source"])
		fmt.Printf("   %s\n\n", candidate.Text)
	}
	return nil
}

func researchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a research query is required")
	}

	workers := c.Int("workers")

	if c.Bool("estimate") {
		est := research.EstimateResearchCost(query, workers)
		fmt.Printf("Estimated cost for %d subtasks:\n", est.Subtasks)
		fmt.Printf("  Planning:  $%.4f\n", est.Planning)
		fmt.Printf("  Execution: $%.4f\n", est.Execution)
		fmt.Printf("  Synthesis: $%.4f\n", est.Synthesis)
		fmt.Printf("  Total:     $%.4f\n", est.Total())
		return nil
	}

	config, err := buildAIConfig(c)
	if err != nil {
		return err
	}

	libOpts := []scholar.LibraryOption{scholar.WithAIConfig(config)}
	if key := c.String("web-search-key"); key != "" {
		libOpts = append(libOpts, scholar.WithWebSearchKey(key))
	}

	lib, err := scholar.NewLibrary(c.String("db"), libOpts...)
	if err != nil {
		return fmt.Errorf("failed to open corpus: %w", err)
	}
	defer lib.Close()

	orch, err := lib.NewOrchestrator(ctx, research.WithWorkerCount(workers))
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer orch.Close()

	report, err := orch.Research(ctx, query)
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}

	printReport(report)
	return nil
}

func printReport(report *core.ResearchReport) {
	fmt.Println(report.Synthesis)
	fmt.Println()

	if len(report.Sources) > 0 {
		fmt.Println("Sources:")
		for _, src := range report.Sources {
			switch src.Kind {
			case core.SourceWeb:
				fmt.Printf("  [web] %s (%s)\n", src.Title, src.Domain)
			default:
				fmt.Printf("  [corpus] %s p.%d\n", src.Ref, src.Page)
			}
		}
		fmt.Println()
	}

	fmt.Printf("Workers: %d  Elapsed: %s  Tokens: %d\n",
		report.WorkerCount, report.Elapsed.Round(time.Millisecond), report.TotalTokens)
	fmt.Printf("Cost: $%.4f (planning $%.4f, execution $%.4f, synthesis $%.4f)\n",
		report.TotalCost,
		report.CostBreakdown.Planning,
		report.CostBreakdown.Execution,
		report.CostBreakdown.Synthesis)

	if report.Diversity != nil {
		d := report.Diversity
		fmt.Printf("Source mix: %d corpus, %d web (%.0f%% web) across %d domains\n",
			d.CorpusSources, d.WebSources, d.WebPercentage, d.UniqueDomains)
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
