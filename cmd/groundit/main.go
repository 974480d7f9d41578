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
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/groundit"
	"github.com/poiesic/groundit/classify"
	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/diag"
	"github.com/poiesic/groundit/guard"
	"github.com/poiesic/groundit/ingest"
	kbbedrock "github.com/poiesic/groundit/kb/bedrock"
	"github.com/poiesic/groundit/llm"
	llmbedrock "github.com/poiesic/groundit/llm/bedrock"
	"github.com/poiesic/groundit/session"
	sessionbadger "github.com/poiesic/groundit/session/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "groundit",
		Usage: "Knowledge-grounded question answering over AWS Bedrock",
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
				Name:   "ask",
				Usage:  "Answer a single question from the knowledge base",
				Action: askCommand,
				Flags: append(connFlags(),
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of passages to retrieve",
						Value: 5,
					},
					&cli.Float64Flag{
						Name:  "temperature",
						Usage: "Sampling temperature",
						Value: 0.0,
					},
					&cli.IntFlag{
						Name:  "max-tokens",
						Usage: "Maximum tokens to generate",
						Value: 512,
					},
					&cli.BoolFlag{
						Name:  "guard",
						Usage: "Screen the question through the prompt gate first",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Per-step timeout for AWS calls",
						Value: 60 * time.Second,
					},
				),
			},
			{
				Name:   "chat",
				Usage:  "Interactive chat with transcript persistence",
				Action: chatCommand,
				Flags: append(connFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB transcript directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of passages to retrieve",
						Value: 5,
					},
					&cli.IntFlag{
						Name:  "history",
						Usage: "Number of previous turns to replay on start",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "guard",
						Usage: "Screen each question through the prompt gate first",
					},
				),
			},
			{
				Name:      "upload",
				Usage:     "Upload a directory of documents to the knowledge base bucket",
				Action:    uploadCommand,
				ArgsUsage: "DIR",
				Flags:     connFlags(),
			},
			{
				Name:   "sync",
				Usage:  "Start a knowledge base ingestion job and wait for it",
				Action: syncCommand,
				Flags: append(connFlags(),
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Maximum time to wait for the job",
						Value: 30 * time.Minute,
					},
					&cli.DurationFlag{
						Name:  "poll-interval",
						Usage: "How often to check job status",
						Value: 5 * time.Second,
					},
				),
			},
			{
				Name:   "models",
				Usage:  "List foundation models available in the region",
				Action: modelsCommand,
				Flags: append(connFlags(),
					&cli.StringFlag{
						Name:  "provider",
						Usage: "Filter by provider name",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// connFlags returns the connection locator flags shared by every command.
// Each flag falls back to a GROUNDIT_* environment variable.
func connFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "region",
			Usage:   "AWS region",
			EnvVars: []string{"GROUNDIT_REGION", "AWS_REGION"},
		},
		&cli.StringFlag{
			Name:    "knowledge-base",
			Aliases: []string{"k"},
			Usage:   "Bedrock knowledge base id",
			EnvVars: []string{"GROUNDIT_KNOWLEDGE_BASE"},
		},
		&cli.StringFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Usage:   "Bedrock model id",
			EnvVars: []string{"GROUNDIT_MODEL"},
		},
		&cli.StringFlag{
			Name:    "bucket",
			Usage:   "Knowledge base document bucket",
			EnvVars: []string{"GROUNDIT_BUCKET"},
		},
		&cli.StringFlag{
			Name:    "data-source",
			Usage:   "Knowledge base data source id",
			EnvVars: []string{"GROUNDIT_DATA_SOURCE"},
		},
		&cli.StringFlag{
			Name:    "cluster-arn",
			Usage:   "Aurora cluster ARN (vector store)",
			EnvVars: []string{"GROUNDIT_CLUSTER_ARN"},
		},
		&cli.StringFlag{
			Name:    "secret-arn",
			Usage:   "Secrets Manager ARN for database credentials",
			EnvVars: []string{"GROUNDIT_SECRET_ARN"},
		},
		&cli.StringFlag{
			Name:    "database",
			Usage:   "Vector store database name",
			EnvVars: []string{"GROUNDIT_DATABASE"},
		},
	}
}

func connFromFlags(c *cli.Context) core.ConnectionContext {
	return core.ConnectionContext{
		ClusterARN:      c.String("cluster-arn"),
		SecretARN:       c.String("secret-arn"),
		Bucket:          c.String("bucket"),
		KnowledgeBaseID: c.String("knowledge-base"),
		DataSourceID:    c.String("data-source"),
		Database:        c.String("database"),
		ModelID:         c.String("model"),
		Region:          c.String("region"),
	}
}

// buildPipeline wires a pipeline from CLI flags.
func buildPipeline(ctx context.Context, c *cli.Context, conn core.ConnectionContext,
	generator llm.Generator) (*groundit.Pipeline, error) {

	retriever, err := kbbedrock.NewClient(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create retrieval client: %w", err)
	}

	opts := []groundit.Option{
		groundit.WithTopK(c.Int("top-k")),
	}
	if c.IsSet("timeout") {
		opts = append(opts, groundit.WithStepTimeout(c.Duration("timeout")))
	}
	if c.Bool("guard") {
		gate, err := guard.NewGate(generator)
		if err != nil {
			return nil, fmt.Errorf("failed to create prompt gate: %w", err)
		}
		opts = append(opts, groundit.WithGate(gate))
	}
	if c.IsSet("temperature") || c.IsSet("max-tokens") {
		sampling := core.DefaultSampling()
		sampling.Temperature = c.Float64("temperature")
		sampling.MaxTokens = c.Int("max-tokens")
		opts = append(opts, groundit.WithSampling(sampling))
	}

	return groundit.NewPipeline(conn, retriever, generator, opts...)
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a question is required")
	}

	conn := connFromFlags(c)
	generator, err := llmbedrock.NewClient(ctx, conn.Region)
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}

	pipeline, err := buildPipeline(ctx, c, conn, generator)
	if err != nil {
		return err
	}

	result, err := pipeline.Answer(ctx, query)
	if err != nil {
		return describeFailure(err)
	}

	printResult(result)
	return nil
}

func chatCommand(c *cli.Context) error {
	ctx := context.Background()

	conn := connFromFlags(c)
	generator, err := llmbedrock.NewClient(ctx, conn.Region)
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}

	pipeline, err := buildPipeline(ctx, c, conn, generator)
	if err != nil {
		return err
	}

	store, err := sessionbadger.OpenStore(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open transcript store: %w", err)
	}
	defer store.Close()

	// Replay recent history
	history, err := store.RecentTurns(ctx, c.Int("history"))
	if err != nil && !errors.Is(err, session.ErrInvalidLimit) {
		return fmt.Errorf("failed to load transcript: %w", err)
	}
	for _, turn := range history {
		fmt.Printf("%s: %s\n", turn.Role, turn.Content)
	}
	if len(history) > 0 {
		fmt.Println("---")
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	fmt.Print("> ")
	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			fmt.Print("> ")
			continue
		}
		if query == "/quit" || query == "/exit" {
			break
		}

		result, err := pipeline.Answer(ctx, query)
		if err != nil {
			fmt.Fprintln(os.Stderr, describeFailure(err))
			fmt.Print("> ")
			continue
		}

		printResult(result)

		_, err = store.AddTurns(ctx,
			&core.Turn{Role: core.RoleUser, Content: query, ModelID: conn.ModelID},
			&core.Turn{Role: core.RoleAssistant, Content: result.AnswerText, ModelID: conn.ModelID},
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to record turns: %v\n", err)
		}
		fmt.Print("> ")
	}
	return scanner.Err()
}

func uploadCommand(c *cli.Context) error {
	ctx := context.Background()

	dir := c.Args().First()
	if dir == "" {
		return fmt.Errorf("a source directory is required")
	}

	conn := connFromFlags(c)
	uploader, err := ingest.NewUploader(ctx, conn)
	if err != nil {
		return fmt.Errorf("failed to create uploader: %w", err)
	}
	defer uploader.Release()

	uploaded, err := uploader.UploadDir(ctx, dir)
	for _, key := range uploaded {
		fmt.Printf("uploaded %s\n", key)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%d file(s) uploaded to %s\n", len(uploaded), conn.Bucket)
	return nil
}

func syncCommand(c *cli.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	conn := connFromFlags(c)
	syncer, err := ingest.NewSyncer(ctx, conn,
		ingest.WithPollInterval(c.Duration("poll-interval")))
	if err != nil {
		return fmt.Errorf("failed to create syncer: %w", err)
	}

	status, err := syncer.Sync(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("job %s: %s\n", status.JobID, status.Status)
	fmt.Printf("scanned %d, indexed %d, failed %d in %s\n",
		status.Scanned, status.Indexed, status.Failed, status.Elapsed.Round(time.Second))
	return nil
}

func modelsCommand(c *cli.Context) error {
	ctx := context.Background()

	conn := connFromFlags(c)
	inspector, err := diag.NewInspector(ctx, conn)
	if err != nil {
		return fmt.Errorf("failed to create inspector: %w", err)
	}

	models, err := inspector.ListModels(ctx, c.String("provider"))
	if err != nil {
		return describeFailure(err)
	}

	for _, model := range models {
		streaming := ""
		if model.Streaming {
			streaming = " (streaming)"
		}
		fmt.Printf("%-60s %s / %s%s\n", model.ModelID, model.Provider, model.Name, streaming)
	}
	fmt.Fprintf(os.Stderr, "%d model(s)\n", len(models))
	return nil
}

// printResult writes the answer and its cited sources to stdout.
func printResult(result *core.GenerationResult) {
	fmt.Println(result.AnswerText)
	if len(result.CitedPassages) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for _, passage := range result.CitedPassages {
			source := passage.SourceLocator
			if source == "" {
				source = "(unknown source)"
			}
			fmt.Printf("  - %s\n", source)
		}
	}
}

// describeFailure classifies an error and appends the remediation hint.
func describeFailure(err error) error {
	classified := classify.Classify(err, "cli")
	if hint := classified.Hint(); hint != "" {
		return fmt.Errorf("%w\nhint: %s", err, hint)
	}
	return err
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
