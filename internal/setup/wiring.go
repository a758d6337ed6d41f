package setup

import (
	"context"
	"fmt"
	"os"

	"github.com/povarna/generative-ai-agents/dataset-eval/internal/aggregator"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/config"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/executor"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/judge"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/llm"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/metrics"
	"github.com/rs/zerolog"
)

// Config holds the evaluator model configuration resolved from flags and
// environment.
type Config struct {
	AWSRegion       string
	LLMModelID      string
	EmbeddingModel  string
	OpenAIKey       string
	DefaultProvider string
}

// Dependencies is the wired evaluation pipeline.
type Dependencies struct {
	Executor *executor.Executor
	Provider string
	Logger   *zerolog.Logger
}

// LoadConfig reads the evaluator configuration from the environment.
func LoadConfig() *Config {
	return &Config{
		AWSRegion:       ResolveRegion(""),
		LLMModelID:      getEnv("EVAL_LLM_MODEL", ""),
		EmbeddingModel:  getEnv("EVAL_EMBEDDING_MODEL", ""),
		OpenAIKey:       getEnv("OPEN_AI_KEY", ""),
		DefaultProvider: getEnv("DEFAULT_LLM_PROVIDER", "bedrock"),
	}
}

// ResolveRegion picks the AWS region: the explicit value wins, then
// EVAL_AWS_REGION, AWS_REGION, AWS_DEFAULT_REGION. Empty means unresolved;
// the Bedrock client rejects that at construction.
func ResolveRegion(explicit string) string {
	for _, candidate := range []string{
		explicit,
		os.Getenv("EVAL_AWS_REGION"),
		os.Getenv("AWS_REGION"),
		os.Getenv("AWS_DEFAULT_REGION"),
	} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// Wire builds the full pipeline: provider clients, metric configuration,
// judges, selector, orchestrator, aggregator.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	if cfg.LLMModelID == "" {
		return nil, fmt.Errorf("missing evaluator LLM model: pass -llm-model or set EVAL_LLM_MODEL")
	}
	if cfg.EmbeddingModel == "" {
		return nil, fmt.Errorf("missing evaluator embedding model: pass -embedding-model or set EVAL_EMBEDDING_MODEL")
	}

	llmClient, embeddings, err := createClients(ctx, cfg)
	if err != nil {
		return nil, err
	}

	metricsConfig, err := config.LoadMetricsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load metrics config: %w", err)
	}

	scorer, err := judge.NewScorer(metricsConfig, llmClient, embeddings, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build metric scorer: %w", err)
	}

	selector := metrics.NewSelector(metricsConfig.Preferences())
	agg := aggregator.NewAggregator(logger)
	exec := executor.NewExecutor(selector, scorer, agg, logger)

	return &Dependencies{
		Executor: exec,
		Provider: cfg.DefaultProvider,
		Logger:   logger,
	}, nil
}

func createClients(ctx context.Context, cfg *Config) (llm.LLMClient, llm.EmbeddingClient, error) {
	switch cfg.DefaultProvider {
	case "openai":
		client, err := gpt.NewClient(cfg.OpenAIKey, cfg.LLMModelID, cfg.EmbeddingModel)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		return client, client, nil
	default:
		client, err := bedrock.NewClient(ctx, cfg.AWSRegion, cfg.LLMModelID, cfg.EmbeddingModel)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Bedrock client: %w", err)
		}
		return client, client, nil
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}
