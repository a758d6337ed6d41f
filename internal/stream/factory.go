package stream

import (
	"context"
	"fmt"

	"github.com/povarna/generative-ai-agents/dataset-eval/internal/executor"
	connect "github.com/povarna/generative-ai-agents/dataset-eval/internal/redis"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/stream/redis"
	"github.com/rs/zerolog"
)

// StreamConfig selects and configures a stream provider.
type StreamConfig struct {
	Provider    string // redis today; kafka, sqs later
	RedisConfig *redis.RedisStreamConfig
}

func NewStreamConsumer(
	ctx context.Context,
	cfg *StreamConfig,
	exec *executor.Executor,
	logger *zerolog.Logger,
) (StreamConsumer, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = "redis"
	}

	switch provider {
	case "redis":
		if cfg.RedisConfig == nil {
			return nil, fmt.Errorf("redis config required")
		}

		client, err := connect.ConnectRedis(
			ctx,
			cfg.RedisConfig.RedisAddr,
			cfg.RedisConfig.RedisPassword,
			5,
		)
		if err != nil {
			return nil, err
		}

		return redis.NewConsumer(client, cfg.RedisConfig, exec, logger), nil

	default:
		return nil, fmt.Errorf("unsupported stream provider: %s", cfg.Provider)
	}
}
