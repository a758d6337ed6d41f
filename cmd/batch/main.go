package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/batch"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/executor"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/setup"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	startTime := time.Now()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	input := flag.String("input", "", "Path to a JSON or JSONL input dataset, or - for stdin")
	output := flag.String("output", "", "Path to the JSON results file (default stdout)")
	format := flag.String("format", "json", "Output format. Supported formats: 'json', 'summary'")
	groupBy := flag.String("group-by", "category", "Grouping strategy: category or none")
	metricsFlag := flag.String("metrics", "", "Comma-separated metrics. Defaults to auto-select from available fields. "+
		"Supported: response_relevancy, faithfulness, context_recall, factual_correctness, semantic_similarity")
	region := flag.String("region", "", "AWS region for evaluator models. Defaults to EVAL_AWS_REGION, AWS_REGION, or AWS_DEFAULT_REGION")
	llmModel := flag.String("llm-model", "", "Evaluator LLM model id. Can also come from EVAL_LLM_MODEL")
	embeddingModel := flag.String("embedding-model", "", "Evaluator embedding model id. Can also come from EVAL_EMBEDDING_MODEL")
	dryRun := flag.Bool("dry-run", false, "Validate input without evaluating")

	flag.Parse()

	if *input == "" {
		log.Fatal().Msg("required flag -input not provided")
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	ctx, cancel := setupGracefulShutdown()
	defer cancel()

	// Read records
	inputFile, closeInput := openInput(*input)
	defer closeInput()

	reader := batch.NewReader(inputFile, &log.Logger)

	if *dryRun {
		dryRunAndExit(ctx, reader)
	}

	rows, err := reader.ReadRows(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input dataset")
	}
	log.Info().Int("total", len(rows)).Msg("Input file parsed")

	cfg := setup.LoadConfig()
	if *region != "" {
		cfg.AWSRegion = setup.ResolveRegion(*region)
	}
	if *llmModel != "" {
		cfg.LLMModelID = *llmModel
	}
	if *embeddingModel != "" {
		cfg.EmbeddingModel = *embeddingModel
	}

	deps, err := setup.Wire(ctx, cfg, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	report, err := deps.Executor.Execute(ctx, rows, executor.Options{
		GroupBy:   *groupBy,
		Requested: parseMetricList(*metricsFlag),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Evaluation failed")
	}

	report.InputPath = *input
	report.Provider = deps.Provider
	report.Region = cfg.AWSRegion
	report.LLMModel = cfg.LLMModelID
	report.EmbeddingModel = cfg.EmbeddingModel

	outputFile, closeOutput := openOutput(*output)
	defer closeOutput()

	writer, err := batch.NewWriter(outputFile, *format, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create writer")
	}
	if err := writer.Write(report); err != nil {
		log.Fatal().Err(err).Msg("Failed to write report")
	}

	// Console digest alongside the report file.
	if *output != "" {
		if abs, err := filepath.Abs(*output); err == nil {
			log.Info().Str("file", abs).Msg("Report saved")
		}
		_ = batch.WriteSummary(os.Stderr, report)
	}

	log.Info().
		Int("rows", report.RowCount).
		Int("groups", report.GroupCount).
		Dur("duration", time.Since(startTime)).
		Msg("Evaluation complete")
}

func openInput(path string) (io.Reader, func()) {
	if path == "-" {
		log.Info().Msg("Reading from stdin")
		return os.Stdin, func() {}
	}

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("Failed to open input file")
	}
	log.Info().Str("file", path).Msg("Reading input file")
	return f, func() { f.Close() }
}

func openOutput(path string) (io.Writer, func()) {
	if path == "" {
		log.Info().Msg("Writing to stdout")
		return os.Stdout, func() {}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("Failed to create output directory")
		}
	}

	f, err := os.Create(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("Failed to create output file")
	}
	log.Info().Str("file", path).Msg("Writing to output file")
	return f, func() { f.Close() }
}

func setupGracefulShutdown() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Warn().Msg("Received interrupt signal, finishing current work...")
		cancel()
	}()

	return ctx, cancel
}

func parseMetricList(raw string) []string {
	if raw == "" {
		return nil
	}

	var out []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func dryRunAndExit(ctx context.Context, reader *batch.Reader) {
	total := 0
	errorCount := 0
	for record := range reader.ReadAll(ctx) {
		total++
		if record.Error != nil {
			log.Error().
				Int("line", record.LineNumber).
				Err(record.Error).
				Msg("Validation error")
			errorCount++
		}
	}

	if errorCount > 0 {
		log.Fatal().Int("errors", errorCount).Msg("Validation failed")
	}
	if total == 0 {
		log.Fatal().Msg("Input dataset is empty")
	}

	log.Info().Int("rows", total).Msg("Validation successful")
	os.Exit(0)
}
