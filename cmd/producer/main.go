package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/batch"
	red "github.com/povarna/generative-ai-agents/dataset-eval/internal/redis"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/stream"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	input := flag.String("input", "", "Path to a JSON or JSONL dataset to submit")
	groupBy := flag.String("group-by", "category", "Grouping strategy: category or none")
	metricsFlag := flag.String("metrics", "", "Comma-separated explicit metric list")
	streamName := flag.String("stream", "eval-jobs", "Job stream name")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -input <dataset file>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(*input, *groupBy, *metricsFlag, *streamName); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(input, groupBy, metricsFlag, streamName string) error {
	_ = godotenv.Load()

	ctx := context.Background()

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	rows, err := batch.NewReader(f, &log.Logger).ReadRows(ctx)
	if err != nil {
		return err
	}

	job := stream.Job{
		JobID:   uuid.NewString(),
		GroupBy: groupBy,
		Metrics: parseMetricList(metricsFlag),
		Rows:    rows,
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client, err := red.ConnectRedis(ctx, addr, os.Getenv("REDIS_PASSWORD"), 3)
	if err != nil {
		return err
	}
	defer client.Close()

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName,
		Values: map[string]any{"payload": string(payload)},
	}).Result()
	if err != nil {
		return err
	}

	log.Info().
		Str("stream", streamName).
		Str("id", id).
		Str("job_id", job.JobID).
		Int("rows", len(rows)).
		Msg("Published successfully!")
	return nil
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
